package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/c4hscore/internal/cli"
	"github.com/okian/c4hscore/internal/config"
	"github.com/okian/c4hscore/internal/domain/model"
	"github.com/okian/c4hscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(&bytes.Buffer{})); err != nil {
		panic(err)
	}
}

type harness struct {
	ctx context.Context
	cfg *config.Config
	out *bytes.Buffer
	err *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	ctx := context.Background()
	cfg := config.New(ctx)
	cfg.DataDir = t.TempDir()
	cfg.DefaultArena = false
	return &harness{ctx: ctx, cfg: cfg, out: &bytes.Buffer{}, err: &bytes.Buffer{}}
}

func (h *harness) run(args ...string) error {
	h.out.Reset()
	h.err.Reset()
	return cli.Run(h.ctx, h.cfg, args, h.out, h.err)
}

func TestRun_Usage(t *testing.T) {
	Convey("Given the command line", t, func() {
		h := newHarness(t)

		Convey("When no command is given", func() {
			err := h.run()
			So(errors.Is(err, cli.ErrUsage), ShouldBeTrue)
			So(h.err.String(), ShouldContainSubstring, "usage: c4hscore")
		})

		Convey("When the command is unknown", func() {
			err := h.run("jump")
			So(errors.Is(err, cli.ErrUsage), ShouldBeTrue)
			So(h.err.String(), ShouldContainSubstring, "export-sqlite")
		})

		Convey("When a command lacks its file", func() {
			err := h.run("show")
			So(errors.Is(err, cli.ErrUsage), ShouldBeTrue)
		})

		Convey("When help is requested", func() {
			So(h.run("add-arena", "-h"), ShouldBeNil)
			So(h.err.String(), ShouldContainSubstring, "add-arena -id ID")
		})
	})
}

func TestRun_EveryCommandHasHelp(t *testing.T) {
	Convey("Given every command listed in the usage text", t, func() {
		h := newHarness(t)
		names := []string{
			"new", "show", "add-arena", "add-class", "add-rider",
			"add-horse", "add-combo", "import", "articles", "export-sqlite",
		}
		So(h.run(), ShouldNotBeNil)
		listing := h.err.String()

		for _, name := range names {
			So(listing, ShouldContainSubstring, "  "+name)

			Convey("When "+name+" is asked for help", func() {
				err := h.run(name, "-h")

				Convey("Then it prints its own usage line", func() {
					So(err, ShouldBeNil)
					So(h.err.String(), ShouldStartWith, "usage: c4hscore "+name)
				})
			})
		}
	})
}

func TestRun_Workflow(t *testing.T) {
	Convey("Given a new event file", t, func() {
		h := newHarness(t)
		So(h.run("new", "-name", "Spring Classic", "spring.c4h"), ShouldBeNil)
		So(h.out.String(), ShouldContainSubstring, "created Spring Classic")

		Convey("Then creating it again fails", func() {
			So(h.run("new", "spring.c4h"), ShouldNotBeNil)
		})

		Convey("When entries are added one command at a time", func() {
			So(h.run("add-arena", "-id", "1", "-name", "Main", "spring.c4h"), ShouldBeNil)
			So(h.run("add-class", "-arena", "1", "-name", "Novice", "-height", "90", "spring.c4h"), ShouldBeNil)
			So(h.out.String(), ShouldEqual, "class 1: Novice\n")
			So(h.run("add-rider", "-surname", "Gravity", "-given", "Andi", "-ea", "1234567", "spring.c4h"), ShouldBeNil)
			So(h.run("add-horse", "-name", "Topless", "spring.c4h"), ShouldBeNil)
			So(h.run("add-combo", "-id", "7", "-surname", "Gravity", "-given", "Andi", "-horse", "Topless", "spring.c4h"), ShouldBeNil)
			So(h.out.String(), ShouldEqual, "combo 7: Andi Gravity on Topless\n")

			Convey("Then show lists them", func() {
				So(h.run("show", "spring.c4h"), ShouldBeNil)
				out := h.out.String()
				So(out, ShouldContainSubstring, "Spring Classic\n")
				So(out, ShouldContainSubstring, "arena 1: Main\n")
				So(out, ShouldContainSubstring, "  class 1: Novice (0 entries)\n")
				So(out, ShouldContainSubstring, "rider: Andi Gravity EA 1234567\n")
				So(out, ShouldContainSubstring, "horse: Topless\n")
				So(out, ShouldContainSubstring, "combo 7: Andi Gravity on Topless\n")
			})

			Convey("Then duplicates are reported and the file is unchanged", func() {
				before, err := os.ReadFile(filepath.Join(h.cfg.DataDir, "spring.c4h"))
				So(err, ShouldBeNil)
				err = h.run("add-horse", "-name", "Topless", "spring.c4h")
				So(errors.Is(err, model.ErrDuplicateKey), ShouldBeTrue)
				after, err := os.ReadFile(filepath.Join(h.cfg.DataDir, "spring.c4h"))
				So(err, ShouldBeNil)
				So(string(after), ShouldEqual, string(before))
			})

			Convey("Then an invalid EA number is rejected", func() {
				err := h.run("add-horse", "-name", "Heffalump", "-ea", "12", "spring.c4h")
				So(errors.Is(err, model.ErrInvalidFormat), ShouldBeTrue)
			})

			Convey("Then the event exports to SQLite", func() {
				So(h.run("export-sqlite", "-out", "spring.db", "spring.c4h"), ShouldBeNil)
				_, err := os.Stat(filepath.Join(h.cfg.DataDir, "spring.db"))
				So(err, ShouldBeNil)
			})
		})

		Convey("When nominations are imported", func() {
			csvPath := filepath.Join(h.cfg.DataDir, "noms.csv")
			So(os.WriteFile(csvPath, []byte("Rider,Horse,ID,Class\nAndi Gravity,Topless,7,1\nBluey Zarzhoff,Nadzoff,9,1\n"), 0o644), ShouldBeNil)

			err := h.run("import", "-csv", "noms.csv", "spring.c4h")

			Convey("Then the summary is printed and the entries are saved", func() {
				So(err, ShouldBeNil)
				So(h.out.String(), ShouldStartWith, "imported 2 rows")
				So(h.run("show", "spring.c4h"), ShouldBeNil)
				So(h.out.String(), ShouldContainSubstring, "(2 entries)")
			})
		})
	})
}

func TestRun_MetricsTextfile(t *testing.T) {
	Convey("Given a metrics textfile path", t, func() {
		h := newHarness(t)
		h.cfg.MetricsTextfile = filepath.Join(h.cfg.DataDir, "c4hscore.prom")

		Convey("When a command runs", func() {
			So(h.run("new", "spring.c4h"), ShouldBeNil)

			Convey("Then the registry is written", func() {
				data, err := os.ReadFile(h.cfg.MetricsTextfile)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "c4hscore_event_")
			})
		})
	})
}
