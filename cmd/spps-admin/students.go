package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/domain/model"
	"github.com/spps-sekolah/spps-api/internal/service"
)

type importOptions struct {
	File  string
	Creds credentialFlags
}

func parseImportFlags(args []string) (importOptions, error) {
	var opts importOptions
	fs := flag.NewFlagSet("import-students", flag.ContinueOnError)
	fs.StringVar(&opts.File, "file", "", "path to a .json array or .xlsx sheet of students")
	opts.Creds.register(fs)
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if strings.TrimSpace(opts.File) == "" {
		return opts, errors.New("-file is required")
	}
	return opts, opts.Creds.validate()
}

// readStudentFile decodes the import file by extension.
func readStudentFile(path string) ([]model.CreateStudentRequest, error) {
	f, err := os.Open(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var reqs []model.CreateStudentRequest
		if err = json.NewDecoder(f).Decode(&reqs); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return reqs, nil
	case ".xlsx":
		return service.ParseStudentSheet(f)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .json or .xlsx)", filepath.Ext(path))
	}
}

func runImportStudents(cmdCtx *commandContext, args []string) (err error) {
	opts, err := parseImportFlags(args)
	if err != nil {
		return err
	}
	reqs, err := readStudentFile(opts.File)
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

	if err = requireRole(sess.User, domainauth.RoleAdmin); err != nil {
		return err
	}

	inserted, err := sess.services.Students.BulkImport(ctx, reqs)
	if err != nil {
		return err
	}
	return writef(cmdCtx.Stdout, "imported %d of %d students (%d skipped)\n",
		len(inserted), len(reqs), len(reqs)-len(inserted))
}
