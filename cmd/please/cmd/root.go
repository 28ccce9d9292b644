// Package cmd provides the please CLI: a sudo-like privilege-elevation
// tool whose authorization decisions come entirely from
// internal/domain/policy. Grounded on original_source/src/bin/please.rs
// and cmd/sentinel-gate/cmd/root.go's cobra/viper wiring idiom.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/please-project/please/internal/config"
	"github.com/please-project/please/internal/domain/policy"
	"github.com/please-project/please/internal/glue/actionlog"
	"github.com/please-project/please/internal/glue/authchallenge"
	"github.com/please-project/please/internal/glue/childenv"
	"github.com/please-project/please/internal/glue/invoker"
	"github.com/please-project/please/internal/glue/searchpath"
	"github.com/please-project/please/internal/glue/tokencache"
	"github.com/please-project/please/internal/glue/tracing"
)

const service = "please"

var (
	cfgFile    string
	checkFile  string
	dirFlag    string
	listFlag   bool
	noprompt   bool
	purgeToken bool
	warmToken  bool
	reasonFlag string
	targetFlag string
	userFlag   string
)

var rootCmd = &cobra.Command{
	Use:                   "please [arguments] </path/to/executable>",
	Short:                 "a sudo-like clone that implements regex all over the place",
	DisableFlagsInUseLine: true,
	SilenceUsage:          true,
	SilenceErrors:         true,
	RunE:                  run,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.Flags().StringVarP(&checkFile, "check", "c", "", "check config file")
	rootCmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "change to directory prior to execution")
	rootCmd.Flags().BoolVarP(&listFlag, "list", "l", false, "list effective rules, can combine with -t/-u")
	rootCmd.Flags().BoolVarP(&noprompt, "noprompt", "n", false, "do nothing if a password is required")
	rootCmd.Flags().BoolVarP(&purgeToken, "purge", "p", false, "purge access token")
	rootCmd.Flags().StringVarP(&reasonFlag, "reason", "r", "", "provide reason for execution")
	rootCmd.Flags().StringVarP(&targetFlag, "target", "t", "", "become target user")
	rootCmd.Flags().StringVarP(&userFlag, "user", "u", "", "become target user")
	rootCmd.Flags().BoolVarP(&warmToken, "warm", "w", false, "warm access token and exit")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "settings", "", "path to please-settings.ini (default: search standard locations)")

	rootCmd.AddCommand(versionCmd)
}

// run implements please.rs::main's control flow end to end.
func run(cmd *cobra.Command, args []string) error {
	config.InitViper(cfgFile)
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	requestID := uuid.NewString()
	logger = logger.With("request_id", requestID, "service", service)

	tracer, err := tracing.New(settings.Tracing.Enabled)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer tracer.Shutdown(context.Background())

	if targetFlag != "" && userFlag != "" && targetFlag != userFlag {
		return fmt.Errorf("cannot use -t and -u with conflicting values")
	}
	target := targetFlag
	if target == "" {
		target = userFlag
	}

	if checkFile != "" {
		_, faulty, err := policy.LoadPolicyFile(checkFile, policy.Request{}, true)
		if err != nil {
			return err
		}
		if faulty {
			return fmt.Errorf("exiting due to error, cannot fully process %s", checkFile)
		}
		fmt.Println("config OK")
		return nil
	}

	facts, err := invoker.Gather()
	if err != nil {
		return fmt.Errorf("gather invoker facts: %w", err)
	}

	emitter, store, err := newEmitter(settings, logger)
	if err != nil {
		return err
	}
	defer emitter.Close()

	tokens := tokencache.New(settings.TokenCache.Dir, settings.TokenCache.FreshSeconds)

	if purgeToken {
		return tokens.Remove(facts.Name, facts.TTY, facts.PPID)
	}

	req := policy.Request{
		Name:        facts.Name,
		Groups:      facts.Groups,
		Target:      target,
		Command:     strings.Join(args, " "),
		Args:        args,
		Hostname:    facts.Hostname,
		Directory:   dirFlag,
		Date:        time.Now(),
		AclType:     policy.AclRun,
		Reason:      reasonFlag,
	}
	if listFlag {
		req.AclType = policy.AclList
	}
	if req.Target == "" {
		req.Target = "root"
	}

	list, faulty, err := policy.LoadPolicyFile(settings.PolicyFile, req, settings.Strict)
	if err != nil || faulty {
		logger.Error("cannot fully process policy file", "path", settings.PolicyFile, "error", err)
		return fmt.Errorf("exiting due to error, cannot fully process %s", settings.PolicyFile)
	}

	if listFlag {
		return doList(cmd.Context(), tracer, req, list, store, emitter)
	}

	if warmToken {
		decision := evaluateTraced(cmd.Context(), tracer, list, req)
		if !decision.Permit {
			return fmt.Errorf("you may not warm a token on %s", req.Hostname)
		}
		return challengeAndRecord(cmd.Context(), facts, decision, req, settings, tokens, emitter, !noprompt, strings.Join(args, " "))
	}

	if len(args) == 0 {
		return fmt.Errorf("no command given")
	}

	resolved := searchpath.Resolve(args[0])
	if resolved == "" {
		return fmt.Errorf("[%s]: command not found", service)
	}
	args[0] = resolved
	req.Command = strings.Join(args, " ")
	req.Args = args

	decision := evaluateTraced(cmd.Context(), tracer, list, req)
	if !decision.Permit {
		emitRecord(emitter, facts, "deny", req, decision.Syslog, req.Command)
		return fmt.Errorf("you may not execute %q on %s as %s", req.Command, req.Hostname, req.Target)
	}
	if err := policy.ReasonOK(decision, req); err != nil {
		emitRecord(emitter, facts, "no_reason", req, decision.Syslog, req.Command)
		return fmt.Errorf("sorry but no reason was given to execute %q on %s as %s", req.Command, req.Hostname, req.Target)
	}

	if err := challengeAndRecord(cmd.Context(), facts, decision, req, settings, tokens, emitter, !noprompt, req.Command); err != nil {
		emitRecord(emitter, facts, "deny", req, decision.Syslog, req.Command)
		return err
	}

	if dirFlag != "" {
		if err := os.Chdir(dirFlag); err != nil {
			return fmt.Errorf("cannot cd into %s: %w", dirFlag, err)
		}
	}

	emitRecord(emitter, facts, "permit", req, decision.Syslog, req.Command)

	targetIdent, targetHome, targetShell, err := lookupTarget(req.Target)
	if err != nil {
		return err
	}

	env := childenv.Build(os.Environ(),
		childenv.Original{User: facts.Name, UID: facts.UID, GID: facts.GID},
		childenv.Target{User: req.Target, HomeDir: targetHome, Shell: targetShell},
		req.Command,
	)

	return execTarget(req.Target, targetIdent, args, env)
}

func newEmitter(settings *config.Settings, logger *slog.Logger) (*actionlog.Emitter, *actionlog.FileStore, error) {
	store, err := actionlog.NewFileStore(actionlog.FileConfig{
		Dir:           settings.ActionLog.Dir,
		RetentionDays: settings.ActionLog.RetentionDays,
		MaxFileSizeMB: settings.ActionLog.MaxFileSizeMB,
		CacheSize:     1000,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open action log: %w", err)
	}
	return actionlog.NewEmitter(service, store), store, nil
}

func emitRecord(e *actionlog.Emitter, facts invoker.Facts, action string, req policy.Request, toSyslog bool, command string) {
	_ = e.Emit(actionlog.Record{
		Timestamp: time.Now(),
		User:      facts.Name,
		Cwd:       facts.Cwd,
		Tty:       facts.TTY,
		Action:    action,
		Target:    req.Target,
		Type:      req.AclType.String(),
		Reason:    req.Reason,
		Command:   command,
	}, toSyslog)
}

func challengeAndRecord(ctx context.Context, facts invoker.Facts, decision policy.Decision, req policy.Request, settings *config.Settings, tokens *tokencache.Cache, emitter *actionlog.Emitter, prompt bool, command string) error {
	if !decision.RequirePass {
		return nil
	}

	timeout := settings.TokenCache.FreshSeconds
	if decision.Timeout != nil {
		timeout = *decision.Timeout
	}

	challenger := authchallenge.New(unimplementedVerifier{}, tokens)
	challenger.Out = os.Stdout
	challenger.In = os.Stdin

	return challenger.Challenge(ctx, authchallenge.Request{
		User:    facts.Name,
		Service: service,
		TTY:     facts.TTY,
		PPID:    facts.PPID,
		Timeout: timeout,
		Prompt:  prompt,
		TTYFd:   0,
	})
}

// unimplementedVerifier is the integration point for a real PAM (or
// other OS authentication) binding; spec.md §1 places that mechanism
// out of scope, so this build ships only the Verifier interface, not an
// implementation.
type unimplementedVerifier struct{}

func (unimplementedVerifier) Verify(ctx context.Context, user, service, password string) error {
	return fmt.Errorf("no authentication backend configured for this build")
}

// evaluateTraced wraps policy.Evaluate in a span, grounded on
// SPEC_FULL.md's "one span per evaluate() call" tracing requirement.
func evaluateTraced(ctx context.Context, tracer *tracing.Tracer, list policy.PolicyList, req policy.Request) policy.Decision {
	_, span := tracer.Start(ctx, "policy.Evaluate")
	defer span.End()
	return policy.Evaluate(list, req)
}

func doList(ctx context.Context, tracer *tracing.Tracer, req policy.Request, list policy.PolicyList, store *actionlog.FileStore, emitter *actionlog.Emitter) error {
	decision := evaluateTraced(ctx, tracer, list, req)
	if !decision.Permit {
		return fmt.Errorf("you may not view %s command list", possessive(req))
	}
	if err := policy.ReasonOK(decision, req); err != nil {
		return fmt.Errorf("sorry but no reason was given to list on %s as %s", req.Hostname, req.Target)
	}

	who := "You"
	if req.Target != req.Name && req.Target != "" {
		who = req.Target
	}

	fmt.Printf("%s may run the following:\n", who)
	req.AclType = policy.AclRun
	if err := policy.ListEntries(list, req, req.Date, os.Stdout); err != nil {
		return err
	}
	fmt.Printf("%s may edit the following:\n", who)
	req.AclType = policy.AclEdit
	if err := policy.ListEntries(list, req, req.Date, os.Stdout); err != nil {
		return err
	}
	fmt.Printf("%s may list the following:\n", who)
	req.AclType = policy.AclList
	return policy.ListEntries(list, req, req.Date, os.Stdout)
}

func possessive(req policy.Request) string {
	if req.Target == "" || req.Target == req.Name {
		return "your"
	}
	return req.Target + "'s"
}
