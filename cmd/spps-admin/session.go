package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spps-sekolah/spps-api/internal/bootstrap"
	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/service"
)

const passwordEnv = "SPPS_PASSWORD"

var errForbidden = errors.New("role not permitted for this command")

type credentialFlags struct {
	User     string
	Password string
}

func (c *credentialFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.User, "u", "", "username")
	fs.StringVar(&c.Password, "p", "", "password (defaults to $"+passwordEnv+")")
}

func (c *credentialFlags) validate() error {
	c.User = strings.TrimSpace(c.User)
	if c.Password == "" {
		c.Password = os.Getenv(passwordEnv)
	}
	if c.User == "" || c.Password == "" {
		return errors.New("-u and -p (or $" + passwordEnv + ") are required")
	}
	return nil
}

// adminSession is a signed-in CLI session over live infrastructure.
type adminSession struct {
	infra    *infra
	services bootstrap.ServiceContainer
	state    *service.SessionState
	User     *domainauth.User
}

func openSession(ctx context.Context, cmdCtx *commandContext, creds credentialFlags) (*adminSession, error) {
	in, err := connectInfra(cmdCtx.Logger, &cmdCtx.Config)
	if err != nil {
		return nil, err
	}
	s := &adminSession{infra: in}

	auth, err := bootstrap.BuildAuthProvider(ctx, bootstrap.AuthConfig{
		Auth:        cmdCtx.Config.Auth,
		KeyPrefix:   cmdCtx.Config.Redis.KeyPrefix,
		DB:          in.DB,
		RedisClient: in.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return nil, errors.Join(err, s.Close(ctx))
	}
	s.services, err = bootstrap.BuildServices(bootstrap.ServiceDeps{
		Provider:    auth.Provider,
		DB:          in.DB,
		RedisClient: in.Redis,
		Bootstrap:   cmdCtx.Config.Auth.BootstrapAccounts(),
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return nil, errors.Join(err, s.Close(ctx))
	}

	s.state = service.NewSessionState(service.SessionStateOptions{
		Provider: auth.Provider,
		Users:    s.services.UserRepo,
		Gateway:  s.services.Auth,
		Logger:   cmdCtx.Logger,
	})
	if err = s.state.Start(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("start session state: %w", err), s.Close(ctx))
	}

	s.User, err = s.state.Login(ctx, creds.User, creds.Password)
	if err != nil {
		return nil, errors.Join(err, s.Close(ctx))
	}
	return s, nil
}

// Close logs out and releases every connection.
func (s *adminSession) Close(ctx context.Context) error {
	var errs []error
	if s.state != nil {
		if s.User != nil {
			if err := s.state.Logout(ctx); err != nil {
				errs = append(errs, fmt.Errorf("logout: %w", err))
			}
		}
		s.state.Close()
	}
	if err := s.infra.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func requireRole(user *domainauth.User, roles ...domainauth.Role) error {
	if !domainauth.HasRole(user, roles...) {
		return errForbidden
	}
	return nil
}

func runWhoAmI(cmdCtx *commandContext, args []string) (err error) {
	var creds credentialFlags
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	creds.register(fs)
	if err = fs.Parse(args); err != nil {
		return err
	}
	if err = creds.validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	sess, err := openSession(ctx, cmdCtx, creds)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, sess.Close(ctx)) }()

	return printUser(cmdCtx, sess.User)
}

func printUser(cmdCtx *commandContext, u *domainauth.User) error {
	return writef(cmdCtx.Stdout, "id:       %s\nusername: %s\nrole:     %s\n", u.ID, u.Username, u.Role)
}
