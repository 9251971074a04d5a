// Package search drives the external document search page: repository
// selection, query submission with an audit event, per-row import status and
// the import and open actions.
package search

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gravitrone/annotator/cli/internal/api"
	"github.com/gravitrone/annotator/cli/internal/event"
	"github.com/gravitrone/annotator/cli/internal/logging"
	"github.com/gravitrone/annotator/cli/internal/metrics"
)

// MatchAll replaces a blank query.
const MatchAll = "*.*"

// User-facing messages.
const (
	MsgLoadFailed    = "Unable to load data"
	MsgImportFailed  = "Unable to import document"
	MsgOpenFailed    = "Unable to open document"
	MsgNoRepository  = "No document repository is configured for this project."
	MsgNoResults     = "No results."
	MsgNoDocumentKey = "result has no title or id"
)

// Backend is the set of platform calls the search page needs.
type Backend interface {
	ListDocumentRepositories(project string) ([]api.DocumentRepository, error)
	Query(user string, repo api.DocumentRepository, query string) ([]api.ExternalSearchResult, error)
	ExistsSourceDocument(project, title string) (bool, error)
	GetSourceDocument(project, title string) (*api.SourceDocument, error)
	ImportDocument(user, project, title string, repo api.DocumentRepository) (*api.SourceDocument, error)
}

// Options configures a Session.
type Options struct {
	User              string
	Project           string
	WebURL            string
	PageSize          int
	DefaultRepository string
}

// Request is a query bound to the repository that was current when it was made.
// Seq orders the requests of one session; later requests have larger values.
type Request struct {
	Seq           uint64
	Query         string
	Repository    api.DocumentRepository
	HasRepository bool
}

// Result is the outcome of executing a Request.
type Result struct {
	Request Request
	Rows    []Row
	Err     error
}

// Session holds the state of one search page.
type Session struct {
	backend Backend
	bus     *event.Bus
	log     *zap.Logger
	opts    Options

	repos   []api.DocumentRepository
	current int
	seq     uint64
	results *ResultProvider
	// shown is the repository the current rows came from.
	shown   api.DocumentRepository
	message string
}

// NewSession creates a session with no repositories loaded.
func NewSession(backend Backend, bus *event.Bus, log *zap.Logger, opts Options) *Session {
	if bus == nil {
		bus = event.NewBus()
	}
	return &Session{
		backend: backend,
		bus:     bus,
		log:     logging.OrNop(log).Named("search"),
		opts:    opts,
		results: NewResultProvider(opts.PageSize),
	}
}

// Bus returns the bus query events are published on.
func (s *Session) Bus() *event.Bus { return s.bus }

// LoadRepositories fetches the project's repositories and selects the
// configured default, or the first one.
func (s *Session) LoadRepositories() error {
	repos, err := s.FetchRepositories()
	if err != nil {
		return err
	}
	s.SetRepositories(repos)
	return nil
}

// FetchRepositories lists the project's repositories without touching the
// session state.
func (s *Session) FetchRepositories() ([]api.DocumentRepository, error) {
	done := metrics.TimeCall("search.list_repositories")
	repos, err := s.backend.ListDocumentRepositories(s.opts.Project)
	done(err == nil)
	if err != nil {
		s.log.Error("list repositories failed", zap.String("project", s.opts.Project), zap.Error(err))
		return nil, fmt.Errorf("list repositories: %w", err)
	}
	return repos, nil
}

// SetRepositories replaces the repository list.
func (s *Session) SetRepositories(repos []api.DocumentRepository) {
	s.repos = append([]api.DocumentRepository(nil), repos...)
	s.current = 0
	if want := strings.TrimSpace(s.opts.DefaultRepository); want != "" {
		for i, r := range s.repos {
			if r.ID == want || strings.EqualFold(r.Name, want) {
				s.current = i
				break
			}
		}
	}
	if len(s.repos) == 0 {
		s.message = MsgNoRepository
	} else if s.message == MsgNoRepository {
		s.message = ""
	}
}

// Repositories returns the loaded repositories.
func (s *Session) Repositories() []api.DocumentRepository { return s.repos }

// Repository returns the current repository.
func (s *Session) Repository() (api.DocumentRepository, bool) {
	if len(s.repos) == 0 {
		return api.DocumentRepository{}, false
	}
	return s.repos[s.current], true
}

// CycleRepository moves the selection by delta, wrapping around. It does not
// rerun the query. Without repositories it does nothing.
func (s *Session) CycleRepository(delta int) {
	n := len(s.repos)
	if n == 0 {
		return
	}
	s.current = ((s.current+delta)%n + n) % n
}

// Results returns the rows of the last successful query.
func (s *Session) Results() *ResultProvider { return s.results }

// ResultsRepository returns the repository the current rows were fetched
// from. It can differ from Repository once the selection has been cycled.
func (s *Session) ResultsRepository() (api.DocumentRepository, bool) {
	return s.shown, s.shown.ID != ""
}

// Message returns the notice or error to show above the results.
func (s *Session) Message() string { return s.message }

// NewRequest captures text and the current repository. Blank text matches
// every document.
func (s *Session) NewRequest(text string) Request {
	q := strings.TrimSpace(text)
	if q == "" {
		q = MatchAll
	}
	repo, ok := s.Repository()
	s.seq++
	return Request{Seq: s.seq, Query: q, Repository: repo, HasRepository: ok}
}

// Execute publishes the query event, runs the query and resolves the
// imported status of every row. It does not modify the session, so it may run
// off the UI loop; Apply installs the result.
func (s *Session) Execute(req Request) Result {
	if !req.HasRepository {
		return Result{Request: req}
	}

	ev := ExternalSearchQueryEvent{
		ID:         uuid.NewString(),
		Repository: req.Repository,
		Project:    s.opts.Project,
		User:       s.opts.User,
		Query:      req.Query,
		Time:       time.Now(),
	}
	if err := s.bus.Publish(ev); err != nil {
		s.log.Warn("query event delivery failed", zap.String("event_id", ev.ID), zap.Error(err))
	}

	done := metrics.TimeCall("search.query")
	hits, err := s.backend.Query(s.opts.User, req.Repository, req.Query)
	done(err == nil)
	if err != nil {
		s.log.Error("external search failed",
			zap.String("repository", req.Repository.Name),
			zap.String("query", req.Query),
			zap.String("root_cause", api.RootCauseMessage(err)),
			zap.Error(err))
		return Result{Request: req, Err: err}
	}

	rows := make([]Row, 0, len(hits))
	for _, hit := range hits {
		rows = append(rows, s.resolveStatus(NewRow(hit)))
	}
	return Result{Request: req, Rows: rows}
}

func (s *Session) resolveStatus(row Row) Row {
	key := row.Key()
	if key == "" {
		return row
	}
	done := metrics.TimeCall("documents.exists")
	exists, err := s.backend.ExistsSourceDocument(s.opts.Project, key)
	done(err == nil)
	if err != nil {
		s.log.Warn("document status lookup failed", zap.String("title", key), zap.Error(err))
		row.StatusErr = err
		return row
	}
	row.Imported = exists
	return row
}

// Apply installs a query result. A failed query keeps the previous rows and
// sets the error message.
func (s *Session) Apply(res Result) {
	switch {
	case !res.Request.HasRepository:
		s.results.Set(nil)
		s.shown = api.DocumentRepository{}
		s.message = MsgNoRepository
	case res.Err != nil:
		s.message = fmt.Sprintf("%s: %s", MsgLoadFailed, rootMessage(res.Err))
	default:
		s.results.Set(res.Rows)
		s.shown = res.Request.Repository
		s.message = ""
		if len(res.Rows) == 0 {
			s.message = MsgNoResults
		}
	}
}

// Submit runs a query and applies its result in one step.
func (s *Session) Submit(text string) Result {
	res := s.Execute(s.NewRequest(text))
	s.Apply(res)
	return res
}

// Import transfers the row's document from repo into the project. Errors are
// formatted for display.
func (s *Session) Import(repo api.DocumentRepository, row Row) (*api.SourceDocument, error) {
	if repo.ID == "" {
		return nil, errors.New(MsgNoRepository)
	}
	key := row.Key()
	if key == "" {
		return nil, fmt.Errorf("%s - %s", MsgImportFailed, MsgNoDocumentKey)
	}

	done := metrics.TimeCall("documents.import")
	doc, err := s.backend.ImportDocument(s.opts.User, s.opts.Project, key, repo)
	done(err == nil)
	if err != nil {
		s.log.Error("document import failed",
			zap.String("title", key),
			zap.String("repository", repo.Name),
			zap.Error(err))
		return nil, fmt.Errorf("%s - %w", MsgImportFailed, api.RootCause(err))
	}
	s.log.Info("document imported", zap.String("title", key), zap.String("repository", repo.Name))
	return doc, nil
}

// MarkImported flips the rows of an imported document to the open action.
func (s *Session) MarkImported(key string) {
	s.results.MarkImported(key)
}

// AnnotationLink resolves the row's project document and returns the URL of
// its annotation page.
func (s *Session) AnnotationLink(row Row) (string, error) {
	key := row.Key()
	if key == "" {
		return "", fmt.Errorf("%s - %s", MsgOpenFailed, MsgNoDocumentKey)
	}
	done := metrics.TimeCall("documents.get")
	doc, err := s.backend.GetSourceDocument(s.opts.Project, key)
	done(err == nil)
	if err != nil {
		s.log.Error("document lookup failed", zap.String("title", key), zap.Error(err))
		return "", fmt.Errorf("%s - %w", MsgOpenFailed, api.RootCause(err))
	}
	return AnnotationURL(s.opts.WebURL, s.opts.Project, doc.ID), nil
}

// AnnotationURL builds the annotation page URL of a project document.
func AnnotationURL(webURL, project, documentID string) string {
	return fmt.Sprintf("%s/p/%s/annotate/%s",
		strings.TrimRight(webURL, "/"), url.PathEscape(project), url.PathEscape(documentID))
}

func rootMessage(err error) string {
	if root := api.RootCause(err); root != nil {
		return root.Error()
	}
	return ""
}
