package kb

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gravitrone/annotator/cli/internal/api"
	"github.com/gravitrone/annotator/cli/internal/event"
	"github.com/gravitrone/annotator/cli/internal/logging"
	"github.com/gravitrone/annotator/cli/internal/metrics"
)

// ErrNoKnowledgeBase is returned when the panel has no knowledge base to act on.
var ErrNoKnowledgeBase = errors.New("no knowledge base selected")

// Service is the knowledge-base backend the panel delegates to.
type Service interface {
	Lookup
	LabelOracle
	EntitySource
	ListConcepts(kb api.KnowledgeBase) ([]api.KBHandle, error)
	ListProperties(kb api.KnowledgeBase) ([]api.KBHandle, error)
	UpsertStatement(kb api.KnowledgeBase, stmt api.KBStatement) (*api.KBStatement, error)
	CreateConcept(kb api.KnowledgeBase, concept api.KBConcept) (*api.KBHandle, error)
	CreateProperty(kb api.KnowledgeBase, property api.KBProperty) (*api.KBHandle, error)
}

// Panel is the controller behind the knowledge-base view. It owns the
// selection state and the detail view, and reacts to events published on its
// bus. It is not safe for concurrent use; events are dispatched one at a time.
type Panel struct {
	kb      api.KnowledgeBase
	hasKB   bool
	service Service
	labels  *SubLabelCache
	bus     *event.Bus
	log     *zap.Logger

	state   State
	detail  DetailView
	refresh Refresh
}

// NewPanel wires a panel to its backend and subscribes its handlers on bus.
// A nil bus gets a private one.
func NewPanel(service Service, bus *event.Bus, log *zap.Logger) *Panel {
	if service == nil {
		panic("kb: NewPanel requires a service")
	}
	if bus == nil {
		bus = event.NewBus()
	}
	p := &Panel{
		service: service,
		labels:  NewSubLabelCache(service),
		bus:     bus,
		log:     logging.OrNop(log).Named("kb"),
	}

	event.On(bus, p.onConceptSelected)
	event.On(bus, p.onPropertySelected)
	event.On(bus, p.onNewConcept)
	event.On(bus, p.onNewProperty)
	event.On(bus, p.onStatementChanged)
	return p
}

// Bus returns the bus the panel listens on.
func (p *Panel) Bus() *event.Bus { return p.bus }

// KnowledgeBase returns the active knowledge base.
func (p *Panel) KnowledgeBase() (api.KnowledgeBase, bool) { return p.kb, p.hasKB }

// State returns a copy of the selection state.
func (p *Panel) State() State {
	s := p.state
	s.Selection.Concept = cloneHandle(s.Selection.Concept)
	s.Selection.Property = cloneHandle(s.Selection.Property)
	return s
}

// Detail returns the current detail view.
func (p *Panel) Detail() DetailView { return p.detail }

// SetKnowledgeBase switches the active knowledge base and resets the panel.
func (p *Panel) SetKnowledgeBase(kb api.KnowledgeBase) {
	p.kb = kb
	p.hasKB = true
	p.state.Reset()
	p.detail = DetailView{}
	p.labels.Reset()
	p.log.Debug("knowledge base switched", zap.String("kb", kb.ID))
}

// Dispatch publishes e to the panel's handlers and reports how much of the UI
// they asked to redraw.
func (p *Panel) Dispatch(e event.Event) (Refresh, error) {
	if !p.hasKB {
		return RefreshNone, ErrNoKnowledgeBase
	}
	p.refresh = RefreshNone
	err := p.bus.Publish(e)
	return p.refresh, err
}

// Select dispatches the selection event matching the handle kind. Only
// concepts and properties can be selected; anything else is a caller bug.
func (p *Panel) Select(h api.KBHandle) (Refresh, error) {
	switch h.Kind {
	case api.KindConcept:
		return p.Dispatch(ConceptSelectionEvent{Selection: &h})
	case api.KindProperty:
		return p.Dispatch(PropertySelectionEvent{Selection: &h})
	default:
		panic(fmt.Sprintf("kb: cannot select %q handle %s", h.Kind, h.Identifier))
	}
}

// Deselect clears both selections.
func (p *Panel) Deselect() (Refresh, error) {
	return p.Dispatch(ConceptSelectionEvent{})
}

// Search lists type-ahead matches in the active knowledge base.
func (p *Panel) Search(prefix string) ([]api.KBHandle, error) {
	if !p.hasKB {
		return nil, ErrNoKnowledgeBase
	}
	return ListSearchResults(p.kb, prefix, p.service)
}

// Rename writes a new label for the selected entity and dispatches the
// resulting statement change.
func (p *Panel) Rename(label string) (Refresh, error) {
	if !p.hasKB {
		return RefreshNone, ErrNoKnowledgeBase
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return RefreshNone, errors.New("label is required")
	}
	target := p.state.Selection.Current()
	if target == nil {
		return RefreshNone, errors.New("nothing selected to rename")
	}

	stmt := api.KBStatement{
		Subject:  target.Identifier,
		Property: LabelPredicate(p.kb),
		Value:    label,
		Language: p.kb.DefaultLanguage,
	}
	done := metrics.TimeCall("kb.upsert_statement")
	saved, err := p.service.UpsertStatement(p.kb, stmt)
	done(err == nil)
	if err != nil {
		p.log.Error("rename failed", zap.String("subject", stmt.Subject), zap.Error(err))
		return RefreshNone, fmt.Errorf("rename %s: %w", stmt.Subject, err)
	}
	if saved != nil {
		stmt = *saved
	}
	return p.Dispatch(StatementChangedEvent{Statement: stmt})
}

// SaveDraft creates the entity of the open blank editor and selects it.
func (p *Panel) SaveDraft(label, description string) (Refresh, error) {
	if !p.hasKB {
		return RefreshNone, ErrNoKnowledgeBase
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return RefreshNone, errors.New("label is required")
	}

	switch p.state.Draft {
	case DraftConcept:
		done := metrics.TimeCall("kb.create_concept")
		h, err := p.service.CreateConcept(p.kb, api.KBConcept{
			Name:        label,
			Description: strings.TrimSpace(description),
			Language:    p.kb.DefaultLanguage,
		})
		done(err == nil)
		if err != nil {
			p.log.Error("create concept failed", zap.String("label", label), zap.Error(err))
			return RefreshNone, fmt.Errorf("create concept: %w", err)
		}
		if h == nil {
			h = &api.KBHandle{Name: label}
		}
		h.Kind = api.KindConcept
		return p.Dispatch(ConceptSelectionEvent{Selection: h})
	case DraftProperty:
		done := metrics.TimeCall("kb.create_property")
		h, err := p.service.CreateProperty(p.kb, api.KBProperty{
			Name:        label,
			Description: strings.TrimSpace(description),
			Language:    p.kb.DefaultLanguage,
		})
		done(err == nil)
		if err != nil {
			p.log.Error("create property failed", zap.String("label", label), zap.Error(err))
			return RefreshNone, fmt.Errorf("create property: %w", err)
		}
		if h == nil {
			h = &api.KBHandle{Name: label}
		}
		h.Kind = api.KindProperty
		return p.Dispatch(PropertySelectionEvent{Selection: h})
	default:
		return RefreshNone, errors.New("no draft to save")
	}
}

// --- Handlers ---

func (p *Panel) onConceptSelected(e ConceptSelectionEvent) error {
	p.state.SelectConcept(e.Selection)
	p.refresh = p.refresh.Max(RefreshPanel)
	return p.render()
}

func (p *Panel) onPropertySelected(e PropertySelectionEvent) error {
	p.state.SelectProperty(e.Selection)
	p.refresh = p.refresh.Max(RefreshPanel)
	return p.render()
}

func (p *Panel) onNewConcept(NewConceptEvent) error {
	p.state.NewConcept()
	p.refresh = p.refresh.Max(RefreshPanel)
	return p.render()
}

func (p *Panel) onNewProperty(NewPropertyEvent) error {
	p.state.NewProperty()
	p.refresh = p.refresh.Max(RefreshPanel)
	return p.render()
}

func (p *Panel) onStatementChanged(e StatementChangedEvent) error {
	out, err := ClassifyStatementChange(p.kb, e.Statement, &p.state.Selection, p.labels)
	if IsSchemaPredicate(p.kb, e.Statement.Property) {
		// The property hierarchy may have changed.
		p.labels.Reset()
	}
	if err != nil {
		p.log.Warn("statement change classification incomplete",
			zap.String("subject", e.Statement.Subject),
			zap.String("property", e.Statement.Property),
			zap.Error(err))
	}
	if out.Rename && p.detail.Identifier() == e.Statement.Subject {
		switch {
		case p.detail.Concept != nil:
			p.detail.Concept.Name = e.Statement.Value
		case p.detail.Property != nil:
			p.detail.Property.Name = e.Statement.Value
		}
	}
	p.refresh = p.refresh.Max(out.Refresh)
	p.log.Debug("statement changed",
		zap.String("subject", e.Statement.Subject),
		zap.Bool("rename", out.Rename),
		zap.Stringer("refresh", out.Refresh))
	return err
}

// render replaces the detail view in one step. On failure the view falls back
// to empty and the error is returned to the dispatcher.
func (p *Panel) render() error {
	view, err := RenderDetail(p.kb, p.state, p.service)
	p.detail = view
	if err != nil {
		p.log.Error("detail lookup failed", zap.String("kb", p.kb.ID), zap.Error(err))
		return err
	}
	return nil
}
