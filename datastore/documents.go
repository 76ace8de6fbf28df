package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/butchersbasket/api/models"
	"github.com/google/uuid"
)

// DocumentCollection is the resource-store surface the generic resource
// handler depends on. Filters are exact-match field/value pairs; an empty
// filter matches everything.
type DocumentCollection interface {
	Insert(ctx context.Context, doc models.Document) (string, error)
	Find(ctx context.Context, filter models.Document) ([]models.Document, error)
	FindByID(ctx context.Context, id string) (models.Document, error)
	Update(ctx context.Context, id string, fields models.Document) error
	Delete(ctx context.Context, id string) error
}

// Collection stores schema-flexible documents in a single JSONB column of
// the named table. Ids are assigned here, not by the caller.
type Collection struct {
	db    *sql.DB
	table string
}

// NewCollection binds a collection to its backing table. The table name
// comes from the resource-type table, never from request input.
func NewCollection(db *sql.DB, table string) *Collection {
	return &Collection{db: db, table: table}
}

func (c *Collection) Insert(ctx context.Context, doc models.Document) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	id := uuid.NewString()
	query := fmt.Sprintf(`INSERT INTO %s (id, created_at, doc) VALUES ($1, $2, $3)`, c.table)
	if _, err := c.db.ExecContext(ctx, query, id, time.Now().UTC(), raw); err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	return id, nil
}

// Find returns every document whose fields contain the filter exactly.
// Results are materialized as a full slice in storage order; an empty result
// is a valid empty slice, not an error.
func (c *Collection) Find(ctx context.Context, filter models.Document) ([]models.Document, error) {
	query := fmt.Sprintf(`SELECT id, doc FROM %s`, c.table)
	var args []any

	if len(filter) > 0 {
		raw, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal filter: %w", err)
		}
		query += ` WHERE doc @> $1`
		args = append(args, raw)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		doc := models.Document{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document %s: %w", id, err)
		}
		doc["id"] = id
		docs = append(docs, doc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}

	return docs, nil
}

func (c *Collection) FindByID(ctx context.Context, id string) (models.Document, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, c.table)

	var raw []byte
	err := c.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document by ID: %w", err)
	}

	doc := models.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document %s: %w", id, err)
	}
	doc["id"] = id
	return doc, nil
}

// Update merges the given fields into an existing document.
func (c *Collection) Update(ctx context.Context, id string, fields models.Document) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal update fields: %w", err)
	}

	query := fmt.Sprintf(`UPDATE %s SET doc = doc || $2 WHERE id = $1`, c.table)
	result, err := c.db.ExecContext(ctx, query, id, raw)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return checkAffected(result)
}

func (c *Collection) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table)
	result, err := c.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
