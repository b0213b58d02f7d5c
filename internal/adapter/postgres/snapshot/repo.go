// Package snapshot persists built datasets into PostgreSQL: one metadata
// row per build plus the four snapshot tables, bulk-loaded with CopyFrom.
package snapshot

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/graphbio/meshchem/internal/adapter/postgres"
	"github.com/graphbio/meshchem/internal/dataset"
	"github.com/graphbio/meshchem/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo stores and inspects persisted snapshots.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new Repo.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// Store loads a whole snapshot in one transaction: metadata first, then the
// node tables, then the edge tables. Storing a build identifier that is
// already present fails with domain.ErrSnapshotExists and leaves the
// database untouched.
func (r *Repo) Store(ctx context.Context, d *dataset.Dataset) error {
	return r.txm.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.pool)
		meta := d.Metadata()

		if err := r.insertMetadata(ctx, q, meta); err != nil {
			return err
		}

		descriptorRows := make([][]any, 0, meta.Counts.Descriptors)
		for _, desc := range d.Descriptors() {
			descriptorRows = append(descriptorRows, []any{
				meta.BuildID, desc.UI, desc.Name, desc.TreeNumbers,
				desc.Structure.CompoundID, desc.Structure.SubstanceID,
				desc.Structure.SMILES, desc.Structure.InChI, desc.Structure.InChIKey,
			})
		}
		if err := copyRows(ctx, q, "descriptors",
			[]string{"build_id", "unique_identifier", "name", "tree_numbers",
				"compound_id", "substance_id", "smiles", "inchi", "inchikey"},
			descriptorRows); err != nil {
			return err
		}

		chemicalRows := make([][]any, 0, meta.Counts.Chemicals)
		for _, chem := range d.Chemicals() {
			chemicalRows = append(chemicalRows, []any{
				meta.BuildID, chem.UI, chem.Name,
				chem.Structure.CompoundID, chem.Structure.SubstanceID,
				chem.Structure.SMILES, chem.Structure.InChI, chem.Structure.InChIKey,
			})
		}
		if err := copyRows(ctx, q, "chemicals",
			[]string{"build_id", "unique_identifier", "name",
				"compound_id", "substance_id", "smiles", "inchi", "inchikey"},
			chemicalRows); err != nil {
			return err
		}

		if err := copyRows(ctx, q, "chemicals_to_descriptors",
			[]string{"build_id", "chemical", "descriptor"},
			edgeRows(meta.BuildID, d.ChemicalEdges())); err != nil {
			return err
		}
		return copyRows(ctx, q, "mesh_dag",
			[]string{"build_id", "parent", "child"},
			edgeRows(meta.BuildID, d.DAGEdges()))
	})
}

// Builds lists the metadata of every stored snapshot, newest first.
func (r *Repo) Builds(ctx context.Context) ([]dataset.Metadata, error) {
	query, args, err := psql.
		Select("build_id", "version", "descriptors_url", "chemicals_url", "roots",
			"recursive", "include_smiles", "include_inchi", "keep_unmapped_chemicals", "built_at").
		From("snapshot_metadata").
		OrderBy("built_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "snapshot_metadata")
	}
	defer rows.Close()

	var out []dataset.Metadata
	for rows.Next() {
		var m dataset.Metadata
		if err := rows.Scan(&m.BuildID, &m.Version, &m.DescriptorsURL, &m.ChemicalsURL,
			&m.Roots, &m.Recursive, &m.IncludeSMILES, &m.IncludeInChI,
			&m.KeepUnmapped, &m.BuiltAt); err != nil {
			return nil, mapError(err, "snapshot_metadata")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Counts reads the stored table sizes of one build straight from the tables.
func (r *Repo) Counts(ctx context.Context, buildID uuid.UUID) (dataset.TableCounts, error) {
	var counts dataset.TableCounts
	for _, t := range []struct {
		table string
		dst   *int
	}{
		{"descriptors", &counts.Descriptors},
		{"chemicals", &counts.Chemicals},
		{"chemicals_to_descriptors", &counts.ChemicalEdges},
		{"mesh_dag", &counts.DAGEdges},
	} {
		query, args, err := psql.Select("count(*)").From(t.table).
			Where(sq.Eq{"build_id": buildID}).ToSql()
		if err != nil {
			return dataset.TableCounts{}, fmt.Errorf("build query: %w", err)
		}
		if err := r.pool.QueryRow(ctx, query, args...).Scan(t.dst); err != nil {
			return dataset.TableCounts{}, mapError(err, t.table)
		}
	}
	return counts, nil
}

func (r *Repo) insertMetadata(ctx context.Context, q postgres.Querier, meta dataset.Metadata) error {
	query, args, err := psql.
		Insert("snapshot_metadata").
		Columns("build_id", "version", "descriptors_url", "chemicals_url", "roots",
			"recursive", "include_smiles", "include_inchi", "keep_unmapped_chemicals", "built_at").
		Values(meta.BuildID, meta.Version, meta.DescriptorsURL, meta.ChemicalsURL, meta.Roots,
			meta.Recursive, meta.IncludeSMILES, meta.IncludeInChI, meta.KeepUnmapped, meta.BuiltAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return mapError(err, "snapshot_metadata")
	}
	return nil
}

func copyRows(ctx context.Context, q postgres.Querier, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	tx, ok := q.(pgx.Tx)
	if !ok {
		return fmt.Errorf("%s: bulk load requires a transaction", table)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows)); err != nil {
		return mapError(err, table)
	}
	return nil
}

func edgeRows(buildID uuid.UUID, edges []domain.Edge) [][]any {
	rows := make([][]any, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, []any{buildID, e.From, e.To})
	}
	return rows
}

// mapError converts pgx/pgconn errors to domain errors. Context errors pass
// through unmapped.
func mapError(err error, table string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", table, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", table, domain.ErrSnapshotExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %s: %w", table, pgErr.Detail, domain.ErrSnapshotFormat)
		}
	}
	return fmt.Errorf("%s: %w", table, err)
}
