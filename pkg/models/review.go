package models

// ReviewKind classifies an item forwarded for manual adjudication
type ReviewKind string

const (
	ReviewUnresolved       ReviewKind = "unresolved"
	ReviewLowConfidence    ReviewKind = "low-confidence"
	ReviewIdentityConflict ReviewKind = "identity-conflict"
	ReviewMergeConflict    ReviewKind = "merge-conflict"
	ReviewMalformed        ReviewKind = "malformed-annotation"
)

// IdentityConflict records two independently derived author or recipient
// records that disagree. Canonical is the one kept.
type IdentityConflict struct {
	Field           string `json:"field"`
	Canonical       Person `json:"canonical"`
	CanonicalSource string `json:"canonical_source"`
	Competing       Person `json:"competing"`
	CompetingSource string `json:"competing_source"`
}

// ReviewItem is one entry of the manual review queue
type ReviewItem struct {
	DocumentID    string            `json:"document_id"`
	Kind          ReviewKind        `json:"kind"`
	EntityType    MentionKind       `json:"entity_type,omitempty"`
	Text          string            `json:"text,omitempty"`
	Line          int               `json:"line"`
	Score         float64           `json:"score"`
	Tier          Confidence        `json:"tier,omitempty"`
	Detail        string            `json:"detail,omitempty"`
	Identity      *IdentityConflict `json:"identity,omitempty"`
	MergeConflict *MergeConflict    `json:"merge_conflict,omitempty"`
}
