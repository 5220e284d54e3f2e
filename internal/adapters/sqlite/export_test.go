package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/okian/c4hscore/internal/adapters/sqlite"
	"github.com/okian/c4hscore/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func exportedEvent() *model.Event {
	ev := model.NewEvent("Spring Classic", model.WithDefaultArena())
	arena, _ := ev.GetArena("1")
	jc := arena.NewJumpClass()
	jc.ArticleID = "238.2.1"
	jc.Height = 110

	rider, _ := ev.NewRider("Gravity", "Andi")
	_ = rider.SetEANumber("1234567")
	horse, _ := ev.NewHorse("Topless")
	_, _ = ev.NewRider("Zarzhoff", "Bluey")
	_, _ = ev.NewCombo("7", rider, horse)
	_, _ = ev.NewCombo("8", nil, nil)

	r, _ := jc.NewRound(model.RoundOne, "7")
	_ = r.AddFault("4r")
	_ = r.AddFault("9dk")
	r.Time = 6512
	_, _ = jc.NewRound(model.RoundOne, "8")
	return ev
}

func count(db *sql.DB, table string) int {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		panic(err)
	}
	return n
}

func TestExport(t *testing.T) {
	convey.Convey("Given an event with entries and results", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "spring.db")
		ev := exportedEvent()

		convey.Convey("When it is exported", func() {
			err := sqlite.Export(ctx, ev, path)
			convey.So(err, convey.ShouldBeNil)

			db, err := sql.Open("sqlite", path)
			convey.So(err, convey.ShouldBeNil)
			defer db.Close()

			convey.Convey("Then every record has a row", func() {
				convey.So(count(db, "event"), convey.ShouldEqual, 1)
				convey.So(count(db, "arenas"), convey.ShouldEqual, 1)
				convey.So(count(db, "jump_classes"), convey.ShouldEqual, 1)
				convey.So(count(db, "riders"), convey.ShouldEqual, 2)
				convey.So(count(db, "horses"), convey.ShouldEqual, 1)
				convey.So(count(db, "combos"), convey.ShouldEqual, 2)
				convey.So(count(db, "rounds"), convey.ShouldEqual, 2)
				convey.So(count(db, "faults"), convey.ShouldEqual, 2)
			})

			convey.Convey("Then combos can be joined to riders", func() {
				var horse string
				err := db.QueryRow(`
					SELECT c.horse_name FROM combos c
					JOIN riders r ON r.surname = c.rider_surname AND r.given_name = c.rider_given_name
					WHERE r.ea_number = '1234567'`).Scan(&horse)
				convey.So(err, convey.ShouldBeNil)
				convey.So(horse, convey.ShouldEqual, "Topless")
			})

			convey.Convey("Then faults keep their codes", func() {
				var kinds string
				err := db.QueryRow(`SELECT kinds FROM faults WHERE jump = 9`).Scan(&kinds)
				convey.So(err, convey.ShouldBeNil)
				convey.So(kinds, convey.ShouldEqual, "dk")
			})

			convey.Convey("Then exporting again replaces the database", func() {
				_, err := ev.NewHorse("Heffalump")
				convey.So(err, convey.ShouldBeNil)
				convey.So(sqlite.Export(ctx, ev, path), convey.ShouldBeNil)

				again, err := sql.Open("sqlite", path)
				convey.So(err, convey.ShouldBeNil)
				defer again.Close()
				convey.So(count(again, "horses"), convey.ShouldEqual, 2)
				convey.So(count(again, "event"), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When no path is given", func() {
			convey.So(sqlite.Export(ctx, ev, " "), convey.ShouldNotBeNil)
		})
	})
}
