// Package registry persists the reference registries in Postgres or SQLite
// and serves them as a registry source
package registry

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/sorrel/pkg/database"
	reg "github.com/Ramsey-B/sorrel/pkg/registry"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

var (
	personColumns       = []string{"id", "forename", "familyname", "alternate_name", "title", "role", "associated_place", "associated_organisation"}
	placeColumns        = []string{"id", "name", "type", "alternate_names", "geonames_id", "wikidata_id"}
	organizationColumns = []string{"id", "name", "type", "alternate_names", "place"}
	roleColumns         = []string{"role", "schema_code", "synonyms"}
)

type placeRow struct {
	ID             string                   `db:"id"`
	Name           string                   `db:"name"`
	Type           string                   `db:"type"`
	AlternateNames database.JSONB[[]string] `db:"alternate_names"`
	GeonamesID     string                   `db:"geonames_id"`
	WikidataID     string                   `db:"wikidata_id"`
}

type organizationRow struct {
	ID             string                   `db:"id"`
	Name           string                   `db:"name"`
	Type           string                   `db:"type"`
	AlternateNames database.JSONB[[]string] `db:"alternate_names"`
	Place          string                   `db:"place"`
}

type roleRow struct {
	Role     string                   `db:"role"`
	Schema   string                   `db:"schema_code"`
	Synonyms database.JSONB[[]string] `db:"synonyms"`
}

// Repository handles registry persistence
type Repository struct {
	db     database.DB
	flavor sqlbuilder.Flavor
	logger ectologger.Logger
}

// NewRepository creates a new registry repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		flavor: database.Flavor(db.DriverName()),
		logger: logger,
	}
}

// Load reads every registry. Rows come back ordered by key so the first-seen
// tie-break of the matchers is stable across loads.
func (r *Repository) Load(ctx context.Context) (*reg.Data, error) {
	ctx, span := tracing.StartSpan(ctx, "registry.Repository.Load")
	defer span.End()

	log := r.logger.WithContext(ctx).WithField("method", "Load")
	data := &reg.Data{}

	if err := r.selectAll(ctx, "persons", personColumns, "id", &data.Persons); err != nil {
		log.WithError(err).Error("Failed to load persons")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to load persons")
	}

	var places []placeRow
	if err := r.selectAll(ctx, "places", placeColumns, "id", &places); err != nil {
		log.WithError(err).Error("Failed to load places")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to load places")
	}
	for _, p := range places {
		data.Places = append(data.Places, reg.PlaceEntry{
			ID:             p.ID,
			Name:           p.Name,
			Type:           p.Type,
			AlternateNames: p.AlternateNames.GetValue(),
			GeonamesID:     p.GeonamesID,
			WikidataID:     p.WikidataID,
		})
	}

	var orgs []organizationRow
	if err := r.selectAll(ctx, "organizations", organizationColumns, "id", &orgs); err != nil {
		log.WithError(err).Error("Failed to load organizations")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to load organizations")
	}
	for _, o := range orgs {
		data.Organizations = append(data.Organizations, reg.OrganizationEntry{
			ID:             o.ID,
			Name:           o.Name,
			Type:           o.Type,
			AlternateNames: o.AlternateNames.GetValue(),
			Place:          o.Place,
		})
	}

	var roles []roleRow
	if err := r.selectAll(ctx, "roles", roleColumns, "role", &roles); err != nil {
		log.WithError(err).Error("Failed to load roles")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to load roles")
	}
	for _, role := range roles {
		data.Roles = append(data.Roles, reg.RoleEntry{
			Role:     role.Role,
			Schema:   role.Schema,
			Synonyms: role.Synonyms.GetValue(),
		})
	}

	log.WithFields(map[string]any{
		"persons":       len(data.Persons),
		"places":        len(data.Places),
		"organizations": len(data.Organizations),
		"roles":         len(data.Roles),
	}).Debug("Loaded registry from database")
	return data, nil
}

func (r *Repository) selectAll(ctx context.Context, table string, columns []string, orderBy string, dest any) error {
	sb := r.flavor.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.OrderBy(orderBy)

	query, args := sb.Build()
	return r.db.SelectContext(ctx, dest, query, args...)
}

// Save upserts every entry of data in one transaction
func (r *Repository) Save(ctx context.Context, data *reg.Data) error {
	ctx, span := tracing.StartSpan(ctx, "registry.Repository.Save")
	defer span.End()

	log := r.logger.WithContext(ctx).WithField("method", "Save")

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, p := range data.Persons {
		err := r.upsert(ctx, tx, "persons", personColumns, "id",
			p.ID, p.Forename, p.Familyname, p.AlternateName, p.Title, p.Role, p.Place, p.Organisation)
		if err != nil {
			log.WithError(err).WithField("id", p.ID).Error("Failed to save person")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save person "+p.ID)
		}
	}

	for _, p := range data.Places {
		err := r.upsert(ctx, tx, "places", placeColumns, "id",
			p.ID, p.Name, p.Type, jsonList(p.AlternateNames), p.GeonamesID, p.WikidataID)
		if err != nil {
			log.WithError(err).WithField("id", p.ID).Error("Failed to save place")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save place "+p.ID)
		}
	}

	for _, o := range data.Organizations {
		err := r.upsert(ctx, tx, "organizations", organizationColumns, "id",
			o.ID, o.Name, o.Type, jsonList(o.AlternateNames), o.Place)
		if err != nil {
			log.WithError(err).WithField("id", o.ID).Error("Failed to save organization")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save organization "+o.ID)
		}
	}

	for _, role := range data.Roles {
		err := r.upsert(ctx, tx, "roles", roleColumns, "role",
			role.Role, role.Schema, jsonList(role.Synonyms))
		if err != nil {
			log.WithError(err).WithField("role", role.Role).Error("Failed to save role")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save role "+role.Role)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit registry")
	}

	log.WithFields(map[string]any{
		"persons":       len(data.Persons),
		"places":        len(data.Places),
		"organizations": len(data.Organizations),
		"roles":         len(data.Roles),
	}).Info("Saved registry")
	return nil
}

// Replace removes every stored entry and saves data in its place
func (r *Repository) Replace(ctx context.Context, data *reg.Data) error {
	ctx, span := tracing.StartSpan(ctx, "registry.Repository.Replace")
	defer span.End()

	txCtx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	for _, table := range []string{"persons", "places", "organizations", "roles"} {
		del := r.flavor.NewDeleteBuilder()
		del.DeleteFrom(table)
		query, args := del.Build()
		if _, err := tx.ExecContext(txCtx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithField("table", table).Error("Failed to clear registry table")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to clear "+table)
		}
	}

	// Save joins the open transaction carried by txCtx
	if err := r.Save(txCtx, data); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit registry")
	}
	return nil
}

func (r *Repository) upsert(ctx context.Context, tx database.Tx, table string, columns []string, key string, values ...any) error {
	ib := database.NewInsertBuilder(r.flavor).
		InsertInto(table).
		Cols(columns...).
		Values(values...)

	updates := make([]string, 0, len(columns)-1)
	for _, c := range columns {
		if c != key {
			updates = append(updates, c)
		}
	}
	ib.OnConflictUpdate([]string{key}, updates...)

	query, args := ib.Build()
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func jsonList(values []string) database.JSONB[[]string] {
	if values == nil {
		values = []string{}
	}
	return database.JSONB[[]string]{Data: values}
}
