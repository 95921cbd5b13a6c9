// Package store implements the persistence layer on top of BadgerDB.
//
// Every domain aggregate lives in its own key prefix as a JSON document.
// Simple collections go through the generic Entity type; operations that
// touch several documents at once (counter maintenance, cascades) run as
// hand-written multi-key transactions so the denormalized counts can never
// drift from the state that produced them.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/logger"
)

// Sentinel errors surfaced by store operations. They alias the application
// error values so callers can errors.Is against either package.
var (
	ErrNotFound      = apperrors.ErrNotFound
	ErrAlreadyExists = apperrors.ErrAlreadyExists
)

// Key prefixes. Composite-keyed collections (comments, likes, scraps) are
// managed by raw transactions rather than Entity.
const (
	prefixUser     = "user:"
	prefixArticle  = "article:"
	prefixCategory = "category:"
	prefixPrompt   = "prompt:"
	prefixRelay    = "relay:"
	prefixSession  = "session:"
	prefixComment  = "comment:"
	prefixLike     = "like:"
	prefixScrap    = "scrap:"
	prefixScrapBy  = "scrapby:"
	prefixHistory  = "history:"
)

// SearchIndexer receives article content changes so a full-text index can
// stay in sync with the store. Implemented by the search package; the store
// falls back to a no-op when none is wired.
type SearchIndexer interface {
	IndexArticle(a *domain.Article) error
	RemoveArticle(id string) error
}

// NoopSearchIndexer discards all indexing events.
type NoopSearchIndexer struct{}

func (NoopSearchIndexer) IndexArticle(*domain.Article) error { return nil }
func (NoopSearchIndexer) RemoveArticle(string) error         { return nil }

// Store is the BadgerDB-backed persistence layer.
type Store struct {
	db      *badger.DB
	logger  *logger.Logger
	indexer SearchIndexer
	loc     *time.Location

	Users      *Entity[domain.User]
	Categories *Entity[domain.Category]
	Prompts    *Entity[domain.Prompt]
	Relays     *Entity[domain.Relay]
	Sessions   *Entity[domain.Session]
	Articles   *Entity[domain.Article]
}

// New opens (or creates) the database at path. The location governs which
// calendar day counters and stamps are keyed to.
func New(path string, loc *time.Location, log *logger.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // badger's own logger is too chatty

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}

	s := &Store{
		db:      db,
		logger:  log,
		indexer: NoopSearchIndexer{},
		loc:     loc,
	}

	s.Users = NewEntity[domain.User](s, prefixUser).
		WithIndexTransform("email",
			func(u *domain.User) []string { return []string{normalizeEmail(u.Email)} },
			normalizeEmail).
		WithIndex("nickname",
			func(u *domain.User) []string { return []string{u.Nickname} })

	s.Categories = NewEntity[domain.Category](s, prefixCategory).
		WithIndex("owner_title",
			func(c *domain.Category) []string { return []string{c.OwnerID + "\x00" + c.Title} })

	s.Prompts = NewEntity[domain.Prompt](s, prefixPrompt)
	s.Relays = NewEntity[domain.Relay](s, prefixRelay)

	s.Sessions = NewEntity[domain.Session](s, prefixSession).
		WithIndex("token",
			func(sess *domain.Session) []string { return []string{sess.RefreshTokenHash} })

	// Articles carry no secondary indexes: the custom transactions in
	// articles.go write article documents directly and must not have to
	// maintain index keys.
	s.Articles = NewEntity[domain.Article](s, prefixArticle)

	log.Info("store opened", "path", path)
	return s, nil
}

// SetSearchIndexer wires the full-text indexer. Must be called before the
// store starts receiving writes.
func (s *Store) SetSearchIndexer(idx SearchIndexer) {
	if idx == nil {
		idx = NoopSearchIndexer{}
	}
	s.indexer = idx
}

// Location returns the calendar-day location the store was opened with.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Today returns the current day stamp in the store's location.
func (s *Store) Today() string {
	return domain.DayKey(time.Now(), s.loc)
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	s.logger.Info("closing store")
	return s.db.Close()
}

// Ping verifies the database is accepting reads.
func (s *Store) Ping() error {
	return s.db.View(func(*badger.Txn) error { return nil })
}

// RunGC runs one round of Badger value-log garbage collection.
func (s *Store) RunGC() error {
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
