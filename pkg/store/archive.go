// Package store archives site summaries in Postgres with pgvector embeddings.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"time"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xhad/skim/internal/models"
	"github.com/xhad/skim/internal/types"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Pool is the subset of *pgxpool.Pool used by the archive.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

type Config struct {
	TableName   string
	VectorDim   int
	SearchLimit int
}

// Record is one archived site summary.
type Record struct {
	DigestID  uuid.UUID
	Keyword   string
	Website   string
	Summary   string
	Sources   []models.SourceRef
	CreatedAt time.Time
	Distance  float64
}

type Archive struct {
	config   Config
	pool     Pool
	embedder types.Embedder
	sb       sq.StatementBuilderType
}

func New(pool Pool, embedder types.Embedder, config Config) *Archive {
	if config.TableName == "" {
		config.TableName = "site_summaries"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768 // nomic-embed-text
	}
	if config.SearchLimit == 0 {
		config.SearchLimit = 5
	}

	return &Archive{
		config:   config,
		pool:     pool,
		embedder: embedder,
		sb:       sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Connect opens a pgx pool for connString and wraps it in an Archive.
func Connect(ctx context.Context, connString string, embedder types.Embedder, config Config) (*Archive, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "store: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "store: ping")
	}
	return New(pool, embedder, config), nil
}

// Init creates the vector extension, the summaries table and its index.
func (a *Archive) Init(ctx context.Context) error {
	table := a.config.TableName
	if !identRe.MatchString(table) {
		return eris.Errorf("store: invalid table name %q", table)
	}

	if _, err := a.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return eris.Wrap(err, "store: create vector extension")
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			digest_id UUID NOT NULL,
			keyword TEXT NOT NULL,
			website TEXT NOT NULL,
			summary TEXT NOT NULL,
			sources JSONB NOT NULL DEFAULT '[]',
			embedding vector(%d),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, table, a.config.VectorDim)
	if _, err := a.pool.Exec(ctx, createTable); err != nil {
		return eris.Wrap(err, "store: create table")
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		indexPrefix(table), table)
	if _, err := a.pool.Exec(ctx, createIndex); err != nil {
		return eris.Wrap(err, "store: create index")
	}

	return nil
}

// Save inserts one row per successful site summary of d. Failed sites are
// not archived.
func (a *Archive) Save(ctx context.Context, d *models.Digest) error {
	websites := make([]string, 0, len(d.Results))
	for website, res := range d.Results {
		if !res.Failed() && res.Summary != "" {
			websites = append(websites, website)
		}
	}
	if len(websites) == 0 {
		return nil
	}
	slices.Sort(websites)

	summaries := make([]string, len(websites))
	for i, website := range websites {
		summaries[i] = sanitizeUTF8(d.Results[website].Summary)
	}

	vectors, err := a.embedder.CreateEmbedding(ctx, summaries)
	if err != nil {
		return eris.Wrap(err, "store: embed summaries")
	}
	if len(vectors) != len(summaries) {
		return eris.Errorf("store: got %d embeddings for %d summaries", len(vectors), len(summaries))
	}

	insert := a.sb.Insert(a.config.TableName).
		Columns("digest_id", "keyword", "website", "summary", "sources", "embedding", "created_at")

	for i, website := range websites {
		sources, err := json.Marshal(sanitizeRefs(d.Results[website].Sources))
		if err != nil {
			return eris.Wrapf(err, "store: encode %s sources", website)
		}
		insert = insert.Values(
			d.ID,
			sanitizeUTF8(d.Keyword),
			website,
			summaries[i],
			string(sources),
			pgvector.NewVector(vectors[i]),
			d.CreatedAt,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return eris.Wrap(err, "store: build insert")
	}

	tag, err := a.pool.Exec(ctx, query, args...)
	if err != nil {
		return eris.Wrapf(err, "store: insert digest %s", d.ID)
	}

	zap.L().Debug("digest archived",
		zap.Stringer("digest_id", d.ID),
		zap.Int64("rows", tag.RowsAffected()))
	return nil
}

// Search returns the archived summaries closest to embedding by cosine
// distance. A non-positive limit uses the configured default.
func (a *Archive) Search(ctx context.Context, embedding []float32, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = a.config.SearchLimit
	}

	query, args, err := a.sb.
		Select("digest_id", "keyword", "website", "summary", "sources", "created_at").
		Column(sq.Expr("embedding <=> ? AS distance", pgvector.NewVector(embedding))).
		From(a.config.TableName).
		OrderBy("distance").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "store: build search")
	}

	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "store: search")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec     Record
			sources []byte
		)
		if err := rows.Scan(&rec.DigestID, &rec.Keyword, &rec.Website, &rec.Summary, &sources, &rec.CreatedAt, &rec.Distance); err != nil {
			return nil, eris.Wrap(err, "store: scan row")
		}
		if len(sources) > 0 {
			if err := json.Unmarshal(sources, &rec.Sources); err != nil {
				return nil, eris.Wrapf(err, "store: decode sources of %s", rec.Website)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate rows")
	}

	return records, nil
}

// SearchText embeds text and searches with the resulting vector.
func (a *Archive) SearchText(ctx context.Context, text string, limit int) ([]Record, error) {
	vectors, err := a.embedder.CreateEmbedding(ctx, []string{sanitizeUTF8(text)})
	if err != nil {
		return nil, eris.Wrap(err, "store: embed query")
	}
	if len(vectors) == 0 {
		return nil, eris.New("store: embedder returned no vector for query")
	}
	return a.Search(ctx, vectors[0], limit)
}

func (a *Archive) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func indexPrefix(table string) string {
	out := []byte(table)
	for i, c := range out {
		if c == '.' {
			out[i] = '_'
		}
	}
	return string(out)
}

func sanitizeRefs(refs []models.SourceRef) []models.SourceRef {
	out := make([]models.SourceRef, len(refs))
	for i, r := range refs {
		out[i] = models.SourceRef{
			URL:     sanitizeUTF8(r.URL),
			Title:   sanitizeUTF8(r.Title),
			Website: sanitizeUTF8(r.Website),
		}
	}
	return out
}

// sanitizeUTF8 drops invalid byte sequences, which Postgres rejects in TEXT
// columns.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	v := make([]rune, 0, len(s))
	for i, r := range s {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(s[i:])
			if size == 1 {
				continue
			}
		}
		v = append(v, r)
	}
	return string(v)
}
