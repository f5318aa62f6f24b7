package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/domain/model"
)

type exportOptions struct {
	Out   string
	List  model.ViolationListOptions
	Creds credentialFlags
}

func parseExportFlags(args []string) (exportOptions, error) {
	var (
		opts                       exportOptions
		from, to, student, vtypeID string
	)
	fs := flag.NewFlagSet("export-violations", flag.ContinueOnError)
	fs.StringVar(&opts.Out, "out", "", "destination .xlsx path")
	fs.StringVar(&from, "from", "", "first day to include (YYYY-MM-DD)")
	fs.StringVar(&to, "to", "", "last day to include (YYYY-MM-DD)")
	fs.StringVar(&student, "student", "", "restrict to one student id")
	fs.StringVar(&vtypeID, "type", "", "restrict to one violation type id")
	opts.Creds.register(fs)
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if strings.TrimSpace(opts.Out) == "" {
		return opts, errors.New("-out is required")
	}

	if from != "" {
		t, err := time.ParseInLocation(time.DateOnly, from, time.Local)
		if err != nil {
			return opts, fmt.Errorf("invalid -from %q: %w", from, err)
		}
		opts.List.From = &t
	}
	if to != "" {
		t, err := time.ParseInLocation(time.DateOnly, to, time.Local)
		if err != nil {
			return opts, fmt.Errorf("invalid -to %q: %w", to, err)
		}
		t = t.AddDate(0, 0, 1)
		opts.List.To = &t
	}
	if opts.List.From != nil && opts.List.To != nil && !opts.List.From.Before(*opts.List.To) {
		return opts, errors.New("-from must not be after -to")
	}
	if student != "" {
		opts.List.StudentID = &student
	}
	if vtypeID != "" {
		opts.List.ViolationTypeID = &vtypeID
	}
	return opts, opts.Creds.validate()
}

func runExportViolations(cmdCtx *commandContext, args []string) (err error) {
	opts, err := parseExportFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	sess, err := openSession(ctx, cmdCtx, opts.Creds)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, sess.Close(ctx)) }()

	if err = requireRole(sess.User, domainauth.RoleAdmin, domainauth.RoleDutyTeacher); err != nil {
		return err
	}

	f, err := os.Create(opts.Out) //nolint:gosec // operator-supplied path
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.Out, err)
	}
	stats, err := sess.services.Reports.WriteViolationsXLSX(ctx, opts.List, f)
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("close %s: %w", opts.Out, closeErr)
	}
	if err != nil {
		return errors.Join(err, os.Remove(opts.Out))
	}
	if err = writef(cmdCtx.Stdout, "wrote %d violations to %s\n", stats.Rows, opts.Out); err != nil {
		return err
	}
	if stats.Truncated {
		return writef(cmdCtx.Stdout, "warning: the range holds more than %d violations; narrow -from/-to for a complete report\n",
			stats.Rows)
	}
	return nil
}
