// Package service orchestrates the event model, its stores, logging and metrics.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/okian/c4hscore/internal/adapters/repository"
	"github.com/okian/c4hscore/internal/adapters/sqlite"
	"github.com/okian/c4hscore/internal/clock"
	"github.com/okian/c4hscore/internal/domain/model"
	"github.com/okian/c4hscore/internal/domain/nominate"
	"github.com/okian/c4hscore/pkg/logger"
	"github.com/okian/c4hscore/pkg/metrics"
)

// Entity kinds used as metric labels.
const (
	kindArena     = "arena"
	kindJumpClass = "jump_class"
	kindRider     = "rider"
	kindHorse     = "horse"
	kindCombo     = "combo"
	kindRound     = "round"
)

// ArticleStore reads article definition files.
type ArticleStore interface {
	OpenArticles(ctx context.Context, path string) (model.Articles, error)
}

// Service holds one open event and applies changes to it.
type Service struct {
	mu sync.Mutex

	store        repository.Store
	articleStore ArticleStore
	clock        clock.Clock
	defaultArena bool

	event    *model.Event
	articles model.Articles

	logger logger.Logger
}

// Stats summarises the open event.
type Stats struct {
	Name        string
	Filename    string
	Arenas      int
	JumpClasses int
	Riders      int
	Horses      int
	Combos      int
	Rounds      int
	Articles    int
	LastChange  time.Time
	LastSave    time.Time
	Saved       bool
}

// New constructs a Service backed by a YAML FileStore.
func New(opts ...Option) *Service {
	fs := repository.NewFileStore()
	s := &Service{
		store:        fs,
		articleStore: fs,
		clock:        clock.NewSystem(),
		articles:     model.Articles{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Event returns the open event, or nil.
func (s *Service) Event() *model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.event
}

// Create starts a new, unsaved event and makes it the open one.
func (s *Service) Create(ctx context.Context, name, filename string) *model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := []model.Option{model.WithClock(s.clock)}
	if s.defaultArena {
		opts = append(opts, model.WithDefaultArena())
	}
	ev := model.NewEvent(name, opts...)
	ev.Filename = filename
	s.event = ev

	s.logger.Info(ctx, "event created",
		logger.String("name", name),
		logger.String("filename", filename),
		logger.Int("arenas", len(ev.Arenas)),
	)
	s.updateGauges()
	return ev
}

// Open loads an event file and makes it the open event.
func (s *Service) Open(ctx context.Context, path string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.store.Open(ctx, path)
	if err != nil {
		metrics.RecordErrorByOperation("open")
		s.logger.Error(ctx, "failed to open event", logger.String("path", path), logger.Error(err))
		return nil, err
	}
	ev.SetClock(s.clock)
	s.event = ev

	s.logger.Info(ctx, "event opened",
		logger.String("name", ev.Name),
		logger.String("path", path),
		logger.Time("lastChange", ev.LastChange),
		logger.Bool("saved", ev.Saved()),
	)
	s.updateGauges()
	return ev, nil
}

// Save writes the open event to its filename.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.current()
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, ev); err != nil {
		metrics.RecordErrorByOperation("save")
		s.logger.Error(ctx, "failed to save event", logger.String("name", ev.Name), logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "event saved", logger.String("path", ev.Filename), logger.Time("lastSave", ev.LastSave))
	return nil
}

// SaveAs writes the open event to path and adopts path as its filename.
func (s *Service) SaveAs(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.current()
	if err != nil {
		return err
	}
	if err := s.store.SaveAs(ctx, ev, path); err != nil {
		metrics.RecordErrorByOperation("save")
		s.logger.Error(ctx, "failed to save event", logger.String("path", path), logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "event saved", logger.String("path", path), logger.Time("lastSave", ev.LastSave))
	return nil
}

// NewArena adds an arena to the open event.
func (s *Service) NewArena(ctx context.Context, id, name string) (*model.Arena, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.current()
	if err != nil {
		return nil, err
	}
	a, err := ev.NewArena(id, name)
	if err != nil {
		return nil, s.rejected(ctx, kindArena, err)
	}
	s.created(ctx, kindArena, logger.String("id", id), logger.String("uid", a.UID))
	return a, nil
}

// NewJumpClass adds the next class to an arena of the open event.
func (s *Service) NewJumpClass(ctx context.Context, arenaID string) (*model.JumpClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.current()
	if err != nil {
		return nil, err
	}
	a, ok := ev.GetArena(arenaID)
	if !ok {
		return nil, fmt.Errorf("%w: arena %s", ErrNotFound, arenaID)
	}
	jc := a.NewJumpClass()
	ev.Update()
	s.created(ctx, kindJumpClass, logger.String("arena", arenaID), logger.Int("id", jc.ID))
	return jc, nil
}

// NewRider adds a rider to the open event.
func (s *Service) NewRider(ctx context.Context, surname, givenName string) (*model.Rider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.current()
	if err != nil {
		return nil, err
	}
	r, err := ev.NewRider(surname, givenName)
	if err != nil {
		return nil, s.rejected(ctx, kindRider, err)
	}
	s.created(ctx, kindRider, logger.String("name", r.FullName()))
	return r, nil
}

// NewHorse adds a horse to the open event.
func (s *Service) NewHorse(ctx context.Context, name string) (*model.Horse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.current()
	if err != nil {
		return nil, err
	}
	h, err := ev.NewHorse(name)
	if err != nil {
		return nil, s.rejected(ctx, kindHorse, err)
	}
	s.created(ctx, kindHorse, logger.String("name", name))
	return h, nil
}

// NewCombo pairs an existing rider and horse under an entry number.
// A nil reference leaves that side of the combo empty.
func (s *Service) NewCombo(ctx context.Context, id string, rider *model.RiderRef, horse *model.HorseRef) (*model.Combo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.current()
	if err != nil {
		return nil, err
	}
	var (
		r *model.Rider
		h *model.Horse
	)
	if rider != nil {
		if r, err = findRider(ev, *rider); err != nil {
			return nil, err
		}
	}
	if horse != nil {
		if h, err = findHorse(ev, *horse); err != nil {
			return nil, err
		}
	}
	c, err := ev.NewCombo(id, r, h)
	if err != nil {
		return nil, s.rejected(ctx, kindCombo, err)
	}
	s.created(ctx, kindCombo, logger.String("id", id), logger.String("uid", c.UID))
	return c, nil
}

// SetRiderEANumber validates and stores a rider's registration number.
func (s *Service) SetRiderEANumber(ctx context.Context, ref model.RiderRef, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.current()
	if err != nil {
		return err
	}
	r, err := findRider(ev, ref)
	if err != nil {
		return err
	}
	if err := r.SetEANumber(number); err != nil {
		metrics.RecordInvalidFormat("rider_ea_number")
		s.logger.Warn(ctx, "rejected rider EA number", logger.String("rider", r.FullName()), logger.Error(err))
		return err
	}
	ev.Update()
	s.logger.Debug(ctx, "rider EA number set", logger.String("rider", r.FullName()))
	return nil
}

// SetHorseEANumber validates and stores a horse's registration number.
func (s *Service) SetHorseEANumber(ctx context.Context, ref model.HorseRef, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.current()
	if err != nil {
		return err
	}
	h, err := findHorse(ev, ref)
	if err != nil {
		return err
	}
	if err := h.SetEANumber(number); err != nil {
		metrics.RecordInvalidFormat("horse_ea_number")
		s.logger.Warn(ctx, "rejected horse EA number", logger.String("horse", h.Name), logger.Error(err))
		return err
	}
	ev.Update()
	s.logger.Debug(ctx, "horse EA number set", logger.String("horse", h.Name))
	return nil
}

// ImportNominations reads a nominations CSV into the open event.
func (s *Service) ImportNominations(ctx context.Context, r io.Reader) (nominate.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.current()
	if err != nil {
		return nominate.Summary{}, err
	}
	src, err := nominate.NewCSVSource(r)
	if err != nil {
		metrics.RecordNominationError()
		return nominate.Summary{}, err
	}
	sum, err := nominate.Import(ctx, ev, src)
	metrics.RecordNominationRows(sum.Rows)
	if err != nil {
		metrics.RecordNominationError()
		s.logger.Error(ctx, "nomination import stopped", logger.Int("rows", sum.Rows), logger.Error(err))
	} else {
		s.logger.Info(ctx, "nominations imported",
			logger.Int("rows", sum.Rows),
			logger.Int("riders", sum.Riders),
			logger.Int("horses", sum.Horses),
			logger.Int("combos", sum.Combos),
			logger.Int("classes", sum.JumpClasses),
			logger.Int("entries", sum.Entries),
		)
	}
	s.updateGauges()
	return sum, err
}

// LoadArticles reads an article file and keeps it for lookups.
func (s *Service) LoadArticles(ctx context.Context, path string) (model.Articles, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.articleStore == nil {
		return nil, fmt.Errorf("%w: article store", ErrNotFound)
	}
	articles, err := s.articleStore.OpenArticles(ctx, path)
	if err != nil {
		metrics.RecordErrorByOperation("articles")
		s.logger.Error(ctx, "failed to load articles", logger.String("path", path), logger.Error(err))
		return nil, err
	}
	s.articles = articles
	metrics.UpdateArticlesLoaded(len(articles))
	s.logger.Info(ctx, "articles loaded", logger.String("path", path), logger.Int("count", len(articles)))
	return articles, nil
}

// Articles returns the loaded articles.
func (s *Service) Articles() model.Articles {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.articles
}

// ExportSQLite writes the open event into a SQLite database at path.
func (s *Service) ExportSQLite(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.current()
	if err != nil {
		return err
	}
	started := time.Now()
	if err := sqlite.Export(ctx, ev, path); err != nil {
		metrics.RecordErrorByOperation("export_sqlite")
		s.logger.Error(ctx, "sqlite export failed", logger.String("path", path), logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "sqlite export written",
		logger.String("path", path),
		logger.Float64("durationMs", float64(time.Since(started).Microseconds())/1000),
	)
	return nil
}

// Stats summarises the open event.
func (s *Service) Stats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.current()
	if err != nil {
		return Stats{}, err
	}
	st := Stats{
		Name:       ev.Name,
		Filename:   ev.Filename,
		Arenas:     len(ev.Arenas),
		Riders:     len(ev.Riders),
		Horses:     len(ev.Horses),
		Combos:     len(ev.Combos),
		Articles:   len(s.articles),
		LastChange: ev.LastChange,
		LastSave:   ev.LastSave,
		Saved:      ev.Saved(),
	}
	for _, jc := range ev.JumpClasses() {
		st.JumpClasses++
		st.Rounds += len(jc.Rounds)
	}
	return st, nil
}

func (s *Service) current() (*model.Event, error) {
	if s.event == nil {
		return nil, ErrNoEvent
	}
	return s.event, nil
}

func (s *Service) created(ctx context.Context, kind string, fields ...logger.Field) {
	metrics.RecordEntityCreated(kind)
	s.logger.Debug(ctx, kind+" created", fields...)
	s.updateGauges()
}

func (s *Service) rejected(ctx context.Context, kind string, err error) error {
	if errors.Is(err, model.ErrDuplicateKey) {
		metrics.RecordDuplicateRejected(kind)
	}
	s.logger.Warn(ctx, kind+" rejected", logger.Error(err))
	return err
}

func (s *Service) updateGauges() {
	ev := s.event
	if ev == nil {
		return
	}
	classes, rounds := 0, 0
	for _, jc := range ev.JumpClasses() {
		classes++
		rounds += len(jc.Rounds)
	}
	metrics.UpdateEventEntities(kindArena, len(ev.Arenas))
	metrics.UpdateEventEntities(kindJumpClass, classes)
	metrics.UpdateEventEntities(kindRider, len(ev.Riders))
	metrics.UpdateEventEntities(kindHorse, len(ev.Horses))
	metrics.UpdateEventEntities(kindCombo, len(ev.Combos))
	metrics.UpdateEventEntities(kindRound, rounds)
}

func findRider(ev *model.Event, ref model.RiderRef) (*model.Rider, error) {
	found := ev.GetRiders(model.Filter{"surname": ref.Surname, "given_name": ref.GivenName})
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: rider %s %s", ErrNotFound, ref.GivenName, ref.Surname)
	}
	return found[0], nil
}

func findHorse(ev *model.Event, ref model.HorseRef) (*model.Horse, error) {
	found := ev.GetHorses(model.Filter{"name": ref.Name})
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: horse %s", ErrNotFound, ref.Name)
	}
	return found[0], nil
}
