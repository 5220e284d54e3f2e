package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/okian/c4hscore/internal/domain/model"
)

const timeLayout = "2006-01-02 15:04:05"

func runNew(ctx context.Context, env *runEnv, args []string) error {
	fs := env.flags("new")
	name := fs.String("name", "New Event", "event name")
	details := fs.String("details", "", "free-text event details")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := env.eventPath(fs)
	if err != nil {
		return err
	}
	if fileExists(path) {
		return fmt.Errorf("%s already exists", path)
	}

	ev := env.svc.Create(ctx, *name, path)
	ev.Details = *details
	if err := env.svc.Save(ctx); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "created %s (%s)\n", ev.Name, path)
	return nil
}

func runShow(ctx context.Context, env *runEnv, args []string) error {
	fs := env.flags("show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := env.eventPath(fs)
	if err != nil {
		return err
	}
	ev, err := env.svc.Open(ctx, path)
	if err != nil {
		return err
	}
	st, err := env.svc.Stats()
	if err != nil {
		return err
	}

	w := env.out
	fmt.Fprintf(w, "%s\n", ev.Name)
	if ev.Details != "" {
		fmt.Fprintf(w, "  %s\n", ev.Details)
	}
	fmt.Fprintf(w, "  dates: %s to %s\n", ev.Dates.Start.Format("2006-01-02"), ev.Dates.End.Format("2006-01-02"))
	fmt.Fprintf(w, "  last change: %s\n", ev.LastChange.Local().Format(timeLayout))
	fmt.Fprintf(w, "  last save: %s\n", ev.LastSave.Local().Format(timeLayout))
	fmt.Fprintf(w, "  arenas %d, classes %d, riders %d, horses %d, combos %d, rounds %d\n",
		st.Arenas, st.JumpClasses, st.Riders, st.Horses, st.Combos, st.Rounds)

	for _, a := range ev.Arenas {
		fmt.Fprintf(w, "arena %s: %s\n", a.ID, a.Name)
		for _, jc := range a.JumpClasses {
			fmt.Fprintf(w, "  class %s: %s", jc.Number, jc.Name)
			if jc.ArticleID != "" {
				fmt.Fprintf(w, " [%s]", jc.ArticleID)
			}
			fmt.Fprintf(w, " (%d entries)\n", len(jc.GetRounds(model.RoundOne)))
		}
	}
	for _, r := range ev.Riders {
		fmt.Fprintf(w, "rider: %s%s\n", r.FullName(), eaSuffix(r.EANumber()))
	}
	for _, h := range ev.Horses {
		fmt.Fprintf(w, "horse: %s%s\n", h.Name, eaSuffix(h.EANumber()))
	}
	for _, c := range ev.Combos {
		fmt.Fprintf(w, "combo %s: %s\n", c.ID, comboLabel(ev, c))
	}
	return nil
}

func eaSuffix(n string) string {
	if n == "" {
		return ""
	}
	return " EA " + n
}

func comboLabel(ev *model.Event, c *model.Combo) string {
	rider, horse := "-", "-"
	if r, ok := ev.ComboRider(c); ok {
		rider = r.FullName()
	}
	if h, ok := ev.ComboHorse(c); ok {
		horse = h.Name
	}
	return rider + " on " + horse
}

func runAddArena(ctx context.Context, env *runEnv, args []string) error {
	fs := env.flags("add-arena")
	id := fs.String("id", "", "arena id")
	name := fs.String("name", "", "arena name (default \"Arena <id>\")")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("id", *id); err != nil {
		return err
	}
	path, err := env.eventPath(fs)
	if err != nil {
		return err
	}
	if *name == "" {
		*name = "Arena " + *id
	}
	return env.mutate(ctx, path, func() error {
		a, err := env.svc.NewArena(ctx, *id, *name)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.out, "arena %s: %s\n", a.ID, a.Name)
		return nil
	})
}

func runAddClass(ctx context.Context, env *runEnv, args []string) error {
	fs := env.flags("add-class")
	arena := fs.String("arena", "1", "arena id")
	name := fs.String("name", "", "class name")
	article := fs.String("article", "", "article id")
	height := fs.Int("height", 0, "jump height in cm")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := env.eventPath(fs)
	if err != nil {
		return err
	}
	if *article != "" {
		if _, err := env.svc.LoadArticles(ctx, env.resolve(env.cfg.ArticlesFile)); err == nil {
			if _, ok := env.svc.Articles().Get(*article); !ok {
				fmt.Fprintf(env.errOut, "warning: article %s is not in %s\n", *article, env.cfg.ArticlesFile)
			}
		}
	}
	return env.mutate(ctx, path, func() error {
		jc, err := env.svc.NewJumpClass(ctx, *arena)
		if err != nil {
			return err
		}
		if *name != "" {
			jc.Name = *name
		}
		jc.ArticleID = *article
		jc.Height = *height
		fmt.Fprintf(env.out, "class %s: %s\n", jc.Number, jc.Name)
		return nil
	})
}

func runAddRider(ctx context.Context, env *runEnv, args []string) error {
	fs := env.flags("add-rider")
	surname := fs.String("surname", "", "surname")
	given := fs.String("given", "", "given name")
	ea := fs.String("ea", "", "7 digit EA number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := env.eventPath(fs)
	if err != nil {
		return err
	}
	return env.mutate(ctx, path, func() error {
		r, err := env.svc.NewRider(ctx, *surname, *given)
		if err != nil {
			return err
		}
		if *ea != "" {
			if err := env.svc.SetRiderEANumber(ctx, r.Ref(), *ea); err != nil {
				return err
			}
		}
		fmt.Fprintf(env.out, "rider: %s%s\n", r.FullName(), eaSuffix(r.EANumber()))
		return nil
	})
}

func runAddHorse(ctx context.Context, env *runEnv, args []string) error {
	fs := env.flags("add-horse")
	name := fs.String("name", "", "horse name")
	ea := fs.String("ea", "", "8 digit EA number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("name", *name); err != nil {
		return err
	}
	path, err := env.eventPath(fs)
	if err != nil {
		return err
	}
	return env.mutate(ctx, path, func() error {
		h, err := env.svc.NewHorse(ctx, *name)
		if err != nil {
			return err
		}
		if *ea != "" {
			if err := env.svc.SetHorseEANumber(ctx, h.Ref(), *ea); err != nil {
				return err
			}
		}
		fmt.Fprintf(env.out, "horse: %s%s\n", h.Name, eaSuffix(h.EANumber()))
		return nil
	})
}

func runAddCombo(ctx context.Context, env *runEnv, args []string) error {
	fs := env.flags("add-combo")
	id := fs.String("id", "", "entry number")
	surname := fs.String("surname", "", "rider surname")
	given := fs.String("given", "", "rider given name")
	horse := fs.String("horse", "", "horse name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("id", *id); err != nil {
		return err
	}
	path, err := env.eventPath(fs)
	if err != nil {
		return err
	}

	var (
		riderRef *model.RiderRef
		horseRef *model.HorseRef
	)
	if *surname != "" || *given != "" {
		riderRef = &model.RiderRef{Surname: *surname, GivenName: *given}
	}
	if *horse != "" {
		horseRef = &model.HorseRef{Name: *horse}
	}
	return env.mutate(ctx, path, func() error {
		c, err := env.svc.NewCombo(ctx, *id, riderRef, horseRef)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.out, "combo %s: %s\n", c.ID, comboLabel(env.svc.Event(), c))
		return nil
	})
}

func runImport(ctx context.Context, env *runEnv, args []string) error {
	fs := env.flags("import")
	csvPath := fs.String("csv", "", "nominations CSV file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("csv", *csvPath); err != nil {
		return err
	}
	path, err := env.eventPath(fs)
	if err != nil {
		return err
	}
	return env.mutate(ctx, path, func() error {
		f, err := os.Open(env.resolve(*csvPath))
		if err != nil {
			return err
		}
		defer f.Close()

		sum, err := env.svc.ImportNominations(ctx, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.out, "imported %d rows: %d riders, %d horses, %d combos, %d classes, %d entries\n",
			sum.Rows, sum.Riders, sum.Horses, sum.Combos, sum.JumpClasses, sum.Entries)
		return nil
	})
}

func runArticles(ctx context.Context, env *runEnv, args []string) error {
	fs := env.flags("articles")
	file := fs.String("file", env.cfg.ArticlesFile, "article file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	articles, err := env.svc.LoadArticles(ctx, env.resolve(*file))
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(articles))
	for id := range articles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		a := articles[id]
		fmt.Fprintf(env.out, "%s\t%s\t%s\n", a.ID, a.Rules, a.Description)
	}
	return nil
}

func runExportSQLite(ctx context.Context, env *runEnv, args []string) error {
	fs := env.flags("export-sqlite")
	out := fs.String("out", "", "SQLite database to write")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("out", *out); err != nil {
		return err
	}
	path, err := env.eventPath(fs)
	if err != nil {
		return err
	}
	if _, err := env.svc.Open(ctx, path); err != nil {
		return err
	}
	if err := env.svc.ExportSQLite(ctx, env.resolve(*out)); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "exported %s to %s\n", path, *out)
	return nil
}
