package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS faqs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question TEXT NOT NULL,
			answer TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS keyword_responses (
			keyword TEXT PRIMARY KEY,
			response TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chat_history (
			record_id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			message TEXT NOT NULL,
			response TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_history_user ON chat_history(user_id, created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Seed inserts a starter FAQ and keyword set so a fresh database can answer
// real questions. Existing rows are left untouched.
func (s *SQLiteStore) Seed() error {
	faqs := [][2]string{
		{"how do i track my order", "You can track your order from the Orders page using your order number."},
		{"what is your return policy", "You can return any item within 30 days of delivery for a full refund."},
		{"how long does shipping take", "Standard shipping takes 3-5 business days."},
	}
	for _, qa := range faqs {
		if _, err := s.db.Exec(
			`INSERT INTO faqs (question, answer)
			 SELECT ?, ? WHERE NOT EXISTS (SELECT 1 FROM faqs WHERE question = ?)`,
			qa[0], qa[1], qa[0],
		); err != nil {
			return fmt.Errorf("failed to seed faq %q: %w", qa[0], err)
		}
	}

	keywords := [][2]string{
		{"refund", "We can process your refund. Would you like me to start it?"},
		{"order", "I can help with your order. Should I look it up for you?"},
		{"shipping", "Shipping usually takes 3-5 business days."},
		{"hello", "Hello! How can I help you today?"},
		{"thanks", "You're welcome! Anything else I can do for you?"},
	}
	for _, kr := range keywords {
		if _, err := s.db.Exec(
			`INSERT OR IGNORE INTO keyword_responses (keyword, response) VALUES (?, ?)`,
			kr[0], kr[1],
		); err != nil {
			return fmt.Errorf("failed to seed keyword %q: %w", kr[0], err)
		}
	}

	return nil
}

// UserByEmail returns the user with the given email and their password hash,
// or (nil, "", nil) when no such user exists.
func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	var user domain.User
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, name, email, password_hash FROM users WHERE email = ?`, email,
	).Scan(&user.ID, &user.Name, &user.Email, &hash)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to query user: %w", err)
	}
	return &user, hash, nil
}

// CreateUser inserts a new user and returns it with the assigned ID.
func (s *SQLiteStore) CreateUser(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)`,
		name, email, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}
	return &domain.User{ID: id, Name: name, Email: email}, nil
}

// FindFAQAnswer performs a case-insensitive substring match of the stored
// questions against the query. When multiple rows match, the first row
// returned by the store wins (rowid order here; store-defined, not a contract).
func (s *SQLiteStore) FindFAQAnswer(ctx context.Context, query string) (string, bool, error) {
	var answer string
	err := s.db.QueryRowContext(ctx,
		`SELECT answer FROM faqs WHERE LOWER(question) LIKE ? LIMIT 1`,
		"%"+strings.ToLower(query)+"%",
	).Scan(&answer)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query faq: %w", err)
	}
	return answer, true, nil
}

// ListFAQs returns all stored FAQ entries.
func (s *SQLiteStore) ListFAQs(ctx context.Context) ([]domain.FAQ, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, question, answer FROM faqs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}
	defer rows.Close()

	var faqs []domain.FAQ
	for rows.Next() {
		var f domain.FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}

// KeywordResponses fetches all keyword/response pairs. Keywords are lowercased
// on the way out for consistent matching.
func (s *SQLiteStore) KeywordResponses(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT keyword, response FROM keyword_responses`)
	if err != nil {
		return nil, fmt.Errorf("failed to query keyword responses: %w", err)
	}
	defer rows.Close()

	responses := make(map[string]string)
	for rows.Next() {
		var keyword, response string
		if err := rows.Scan(&keyword, &response); err != nil {
			return nil, fmt.Errorf("failed to scan keyword response: %w", err)
		}
		responses[strings.ToLower(keyword)] = response
	}
	return responses, rows.Err()
}

// AppendChatRecord inserts one exchange into the chat history.
func (s *SQLiteStore) AppendChatRecord(ctx context.Context, rec *domain.ChatRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_history (record_id, user_id, message, response, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.RecordID, rec.UserID, rec.Utterance, rec.Response, createdAt,
	); err != nil {
		return fmt.Errorf("failed to append chat record: %w", err)
	}
	return nil
}

// ChatHistory returns up to limit most recent exchanges for a user, oldest first.
func (s *SQLiteStore) ChatHistory(ctx context.Context, userID int64, limit int) ([]domain.ChatRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, user_id, message, response, created_at FROM (
			SELECT record_id, user_id, message, response, created_at
			FROM chat_history WHERE user_id = ?
			ORDER BY created_at DESC, record_id DESC LIMIT ?
		) ORDER BY created_at ASC, record_id ASC`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	var records []domain.ChatRecord
	for rows.Next() {
		var rec domain.ChatRecord
		if err := rows.Scan(&rec.RecordID, &rec.UserID, &rec.Utterance, &rec.Response, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
