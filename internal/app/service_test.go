package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/c4hscore/internal/adapters/repository"
	service "github.com/okian/c4hscore/internal/app"
	"github.com/okian/c4hscore/internal/clock"
	"github.com/okian/c4hscore/internal/domain/model"
	"github.com/okian/c4hscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var errDiskFull = errors.New("disk full")

type failingStore struct{}

func (failingStore) Save(context.Context, *model.Event) error { return errDiskFull }
func (failingStore) SaveAs(context.Context, *model.Event, string) error {
	return errDiskFull
}
func (failingStore) Open(context.Context, string) (*model.Event, error) { return nil, errDiskFull }

func newService(opts ...service.Option) *service.Service {
	fixed := clock.NewFixed(time.Date(2024, 9, 14, 8, 30, 0, 0, time.UTC))
	return service.New(append([]service.Option{service.WithClock(fixed)}, opts...)...)
}

func TestService_NoEvent(t *testing.T) {
	Convey("Given a service with no open event", t, func() {
		svc := newService()
		ctx := context.Background()

		Convey("Then changes are refused", func() {
			So(svc.Event(), ShouldBeNil)
			_, err := svc.NewArena(ctx, "1", "Main")
			So(errors.Is(err, service.ErrNoEvent), ShouldBeTrue)
			So(errors.Is(svc.Save(ctx), service.ErrNoEvent), ShouldBeTrue)
			_, err = svc.Stats()
			So(errors.Is(err, service.ErrNoEvent), ShouldBeTrue)
		})
	})
}

func TestService_Create(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()

		Convey("When an event is created without the default arena", func() {
			svc := newService()
			ev := svc.Create(ctx, "Spring Classic", "")

			Convey("Then it is open, empty and unsaved", func() {
				So(svc.Event(), ShouldEqual, ev)
				So(ev.Arenas, ShouldBeEmpty)
				So(ev.Saved(), ShouldBeFalse)
				So(ev.LastChange, ShouldEqual, time.Date(2024, 9, 14, 8, 30, 0, 0, time.UTC))
			})
		})

		Convey("When an event is created with the default arena", func() {
			svc := newService(service.WithDefaultArena(true))
			ev := svc.Create(ctx, "Spring Classic", "")

			Convey("Then arena 1 exists", func() {
				So(ev.Arenas, ShouldHaveLength, 1)
				So(ev.Arenas[0].ID, ShouldEqual, "1")
				So(ev.Arenas[0].Name, ShouldEqual, "Arena 1")
			})
		})
	})
}

func TestService_Entries(t *testing.T) {
	Convey("Given an open event", t, func() {
		ctx := context.Background()
		svc := newService()
		ev := svc.Create(ctx, "Spring Classic", "")

		Convey("When arenas, classes, riders, horses and combos are added", func() {
			_, err := svc.NewArena(ctx, "1", "Main")
			So(err, ShouldBeNil)
			jc, err := svc.NewJumpClass(ctx, "1")
			So(err, ShouldBeNil)
			_, err = svc.NewRider(ctx, "Gravity", "Andi")
			So(err, ShouldBeNil)
			_, err = svc.NewHorse(ctx, "Topless")
			So(err, ShouldBeNil)
			c, err := svc.NewCombo(ctx, "7", &model.RiderRef{Surname: "Gravity", GivenName: "Andi"}, &model.HorseRef{Name: "Topless"})
			So(err, ShouldBeNil)

			Convey("Then the records are linked", func() {
				So(jc.Number, ShouldEqual, "1")
				So(jc.ArenaID, ShouldEqual, "1")
				r, ok := ev.ComboRider(c)
				So(ok, ShouldBeTrue)
				So(r.FullName(), ShouldEqual, "Andi Gravity")
				h, ok := ev.ComboHorse(c)
				So(ok, ShouldBeTrue)
				So(h.Name, ShouldEqual, "Topless")
			})

			Convey("Then duplicates are rejected", func() {
				_, err := svc.NewArena(ctx, "1", "Other")
				So(errors.Is(err, model.ErrDuplicateKey), ShouldBeTrue)
				_, err = svc.NewRider(ctx, "Gravity", "Andi")
				So(errors.Is(err, model.ErrDuplicateKey), ShouldBeTrue)
				_, err = svc.NewHorse(ctx, "Topless")
				So(errors.Is(err, model.ErrDuplicateKey), ShouldBeTrue)
				_, err = svc.NewCombo(ctx, "7", nil, nil)
				So(errors.Is(err, model.ErrDuplicateKey), ShouldBeTrue)
			})

			Convey("Then unknown references are not found", func() {
				_, err := svc.NewJumpClass(ctx, "9")
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
				_, err = svc.NewCombo(ctx, "8", nil, &model.HorseRef{Name: "Heffalump"})
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then stats count everything", func() {
				st, err := svc.Stats()
				So(err, ShouldBeNil)
				So(st.Arenas, ShouldEqual, 1)
				So(st.JumpClasses, ShouldEqual, 1)
				So(st.Riders, ShouldEqual, 1)
				So(st.Horses, ShouldEqual, 1)
				So(st.Combos, ShouldEqual, 1)
				So(st.Rounds, ShouldEqual, 0)
				So(st.Saved, ShouldBeFalse)
			})
		})
	})
}

func TestService_EANumbers(t *testing.T) {
	Convey("Given an event with a rider and a horse", t, func() {
		ctx := context.Background()
		svc := newService()
		svc.Create(ctx, "Spring Classic", "")
		r, _ := svc.NewRider(ctx, "Gravity", "Andi")
		h, _ := svc.NewHorse(ctx, "Topless")
		before := svc.Event().LastChange

		Convey("When valid numbers are set", func() {
			So(svc.SetRiderEANumber(ctx, r.Ref(), "1234567"), ShouldBeNil)
			So(svc.SetHorseEANumber(ctx, h.Ref(), "12345678"), ShouldBeNil)

			Convey("Then they are stored and the event changes", func() {
				So(r.EANumber(), ShouldEqual, "1234567")
				So(h.EANumber(), ShouldEqual, "12345678")
				So(svc.Event().LastChange.After(before), ShouldBeTrue)
			})
		})

		Convey("When invalid numbers are set", func() {
			err := svc.SetRiderEANumber(ctx, r.Ref(), "12a4567")
			So(errors.Is(err, model.ErrInvalidFormat), ShouldBeTrue)
			err = svc.SetHorseEANumber(ctx, h.Ref(), "1234567")
			So(errors.Is(err, model.ErrInvalidFormat), ShouldBeTrue)

			Convey("Then the old values are kept", func() {
				So(r.EANumber(), ShouldEqual, "")
				So(h.EANumber(), ShouldEqual, "")
			})
		})

		Convey("When the rider does not exist", func() {
			err := svc.SetRiderEANumber(ctx, model.RiderRef{Surname: "Nobody"}, "1234567")
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_ImportNominations(t *testing.T) {
	Convey("Given an open event", t, func() {
		ctx := context.Background()
		svc := newService()
		ev := svc.Create(ctx, "Spring Classic", "")

		Convey("When nominations are imported", func() {
			sum, err := svc.ImportNominations(ctx, strings.NewReader("Rider,Horse,ID,Class\nAndi Gravity,Topless,7,1\n"))

			Convey("Then entries are created", func() {
				So(err, ShouldBeNil)
				So(sum.Rows, ShouldEqual, 1)
				So(ev.Combos, ShouldHaveLength, 1)
				jc, ok := ev.FindJumpClass("1")
				So(ok, ShouldBeTrue)
				So(jc.GetRounds(model.RoundOne), ShouldHaveLength, 1)
			})
		})

		Convey("When the header is missing a column", func() {
			_, err := svc.ImportNominations(ctx, strings.NewReader("Rider,Horse\n"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestService_Persistence(t *testing.T) {
	Convey("Given a created event", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		svc := newService()
		svc.Create(ctx, "Spring Classic", "")
		_, err := svc.NewHorse(ctx, "Topless")
		So(err, ShouldBeNil)

		Convey("When saved without a filename", func() {
			err := svc.Save(ctx)
			So(errors.Is(err, repository.ErrNoFilename), ShouldBeTrue)
		})

		Convey("When saved as a file and reopened", func() {
			path := filepath.Join(dir, "spring.c4h")
			So(svc.SaveAs(ctx, path), ShouldBeNil)

			other := newService()
			ev, err := other.Open(ctx, path)

			Convey("Then the event is restored", func() {
				So(err, ShouldBeNil)
				So(ev.Name, ShouldEqual, "Spring Classic")
				So(ev.Filename, ShouldEqual, path)
				So(ev.Saved(), ShouldBeTrue)
				So(ev.GetHorses(model.Filter{"name": "Topless"}), ShouldHaveLength, 1)
			})

			Convey("Then it can be saved in place", func() {
				So(err, ShouldBeNil)
				So(other.Save(ctx), ShouldBeNil)
			})

			Convey("Then it can be exported to SQLite", func() {
				So(err, ShouldBeNil)
				So(other.ExportSQLite(ctx, filepath.Join(dir, "spring.db")), ShouldBeNil)
			})
		})

		Convey("When the store fails", func() {
			broken := newService(service.WithStore(failingStore{}))
			broken.Create(ctx, "Spring Classic", "x.c4h")

			So(errors.Is(broken.Save(ctx), errDiskFull), ShouldBeTrue)
			_, err := broken.Open(ctx, "x.c4h")
			So(errors.Is(err, errDiskFull), ShouldBeTrue)

			Convey("Then articles cannot be loaded without an article store", func() {
				_, err := broken.LoadArticles(ctx, "EA_articles.c4ha")
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Articles(t *testing.T) {
	Convey("Given an article file", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "EA_articles.c4ha")
		a := model.NewArticle("238.2.1")
		a.Description = "Table A against the clock"
		So(repository.NewFileStore().SaveArticles(ctx, path, model.RulesEA, model.Articles{a.ID: a}), ShouldBeNil)

		Convey("When the service loads it", func() {
			svc := newService()
			loaded, err := svc.LoadArticles(ctx, path)

			Convey("Then the articles are available", func() {
				So(err, ShouldBeNil)
				So(loaded, ShouldHaveLength, 1)
				got, ok := svc.Articles().Get("238.2.1")
				So(ok, ShouldBeTrue)
				So(got.Description, ShouldEqual, "Table A against the clock")
			})
		})
	})
}
