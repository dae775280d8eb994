package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/yungbote/coursework-backend/internal/app"
	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/services"
)

type idList []string

func (l *idList) String() string { return strings.Join(*l, ",") }
func (l *idList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

type options struct {
	courses          idList
	dryRun           bool
	includeCompleted bool
	limit            int
}

// Recomputes stored enrollment progress from lesson progress rows. Enrollments
// already marked complete keep their completed_at unless -include-completed is set.
func main() {
	var opts options
	flag.Var(&opts.courses, "course", "course_id to backfill (repeatable)")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "print planned recalculations without writing")
	flag.BoolVar(&opts.includeCompleted, "include-completed", false, "also recalculate completed enrollments")
	flag.IntVar(&opts.limit, "limit", 0, "limit number of enrollments processed")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Printf("load .env: %v\n", err)
	}
	os.Exit(run(context.Background(), opts, app.New))
}

// run owns the application lifetime and returns the process exit code, so
// Close always runs before the caller exits.
func run(ctx context.Context, opts options, open func() (*app.App, error)) int {
	application, err := open()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		return 1
	}
	defer application.Close()

	updated, err := backfill(ctx, application.DB, application.Services.Progress, opts)
	if err != nil {
		fmt.Printf("load enrollments: %v\n", err)
		return 1
	}
	fmt.Printf("done; recalculated=%d\n", updated)
	return 0
}

func backfill(ctx context.Context, db *gorm.DB, progress services.ProgressService, opts options) (int, error) {
	q := db.WithContext(ctx).Order("enrolled_at ASC")
	if len(opts.courses) > 0 {
		ids := make([]uuid.UUID, 0, len(opts.courses))
		for _, s := range opts.courses {
			id, err := uuid.Parse(strings.TrimSpace(s))
			if err == nil && id != uuid.Nil {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			fmt.Println("no valid course_id values provided")
			return 0, nil
		}
		q = q.Where("course_id IN ?", ids)
	}
	if !opts.includeCompleted {
		q = q.Where("completed_at IS NULL")
	}
	if opts.limit > 0 {
		q = q.Limit(opts.limit)
	}
	var rows []*types.Enrollment
	if err := q.Find(&rows).Error; err != nil {
		return 0, err
	}

	updated := 0
	for _, e := range rows {
		if e == nil || e.ID == uuid.Nil {
			continue
		}
		if opts.dryRun {
			fmt.Printf("[dry-run] recalculate user_id=%s course_id=%s (stored %d%%)\n", e.UserID, e.CourseID, e.Progress)
			continue
		}
		snap, err := progress.RecalculateCourseProgress(ctx, e.UserID, e.CourseID)
		if err != nil {
			fmt.Printf("recalculate failed for enrollment %s: %v\n", e.ID, err)
			continue
		}
		if snap.Progress != e.Progress {
			fmt.Printf("course_id=%s user_id=%s progress %d%% -> %d%%\n", e.CourseID, e.UserID, e.Progress, snap.Progress)
		}
		updated++
	}
	return updated, nil
}
