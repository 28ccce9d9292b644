// Package cmd provides the pleaseedit CLI: a privileged single-file
// editor gated by the same policy engine as please, using
// internal/glue/editflow for the stage/edit/validate/replace sequence.
// Grounded on original_source/src/bin/pleaseedit.rs and
// cmd/please/cmd/root.go's cobra wiring.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/please-project/please/internal/config"
	"github.com/please-project/please/internal/domain/policy"
	"github.com/please-project/please/internal/glue/actionlog"
	"github.com/please-project/please/internal/glue/authchallenge"
	"github.com/please-project/please/internal/glue/editflow"
	"github.com/please-project/please/internal/glue/invoker"
	"github.com/please-project/please/internal/glue/tokencache"
	"github.com/please-project/please/internal/glue/tracing"
)

const service = "pleaseedit"

var (
	cfgFile    string
	noprompt   bool
	purgeToken bool
	warmToken  bool
	reasonFlag string
	targetFlag string
)

var rootCmd = &cobra.Command{
	Use:                   "pleaseedit [arguments] </path/to/file>",
	Short:                 "privileged single-file editor gated by the please policy engine",
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

	rootCmd.Flags().BoolVarP(&noprompt, "noprompt", "n", false, "do nothing if a password is required")
	rootCmd.Flags().BoolVarP(&purgeToken, "purge", "p", false, "purge access token")
	rootCmd.Flags().StringVarP(&reasonFlag, "reason", "r", "", "reason for execution")
	rootCmd.Flags().StringVarP(&targetFlag, "target", "t", "", "edit as target user")
	rootCmd.Flags().BoolVarP(&warmToken, "warm", "w", false, "warm access token and exit")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "settings", "", "path to please-settings.ini (default: search standard locations)")

	rootCmd.AddCommand(versionCmd)
}

func run(cmd *cobra.Command, args []string) error {
	config.InitViper(cfgFile)
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger = logger.With("request_id", uuid.NewString(), "service", service)

	tracer, err := tracing.New(settings.Tracing.Enabled)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer tracer.Shutdown(context.Background())

	facts, err := invoker.Gather()
	if err != nil {
		return fmt.Errorf("gather invoker facts: %w", err)
	}

	tokens := tokencache.New(settings.TokenCache.Dir, settings.TokenCache.FreshSeconds)

	if purgeToken {
		return tokens.Remove(facts.Name, facts.TTY, facts.PPID)
	}

	store, err := actionlog.NewFileStore(actionlog.FileConfig{
		Dir:           settings.ActionLog.Dir,
		RetentionDays: settings.ActionLog.RetentionDays,
		MaxFileSizeMB: settings.ActionLog.MaxFileSizeMB,
		CacheSize:     1000,
	}, logger)
	if err != nil {
		return fmt.Errorf("open action log: %w", err)
	}
	emitter := actionlog.NewEmitter(service, store)
	defer emitter.Close()

	if warmToken {
		if noprompt {
			return nil
		}
		challenger := authchallenge.New(unimplementedVerifier{}, tokens)
		challenger.Out = os.Stdout
		challenger.In = os.Stdin
		return challenger.Challenge(cmd.Context(), authchallenge.Request{
			User: facts.Name, Service: service, TTY: facts.TTY, PPID: facts.PPID, Prompt: true, TTYFd: 0,
		})
	}

	target := targetFlag
	if target == "" {
		target = "root"
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: pleaseedit [arguments] </path/to/file>")
	}
	sourceFile := args[0]

	req := policy.Request{
		Name:      facts.Name,
		Groups:    facts.Groups,
		Target:    target,
		Command:   sourceFile,
		Args:      args,
		Hostname:  facts.Hostname,
		Date:      time.Now(),
		AclType:   policy.AclEdit,
		Reason:    reasonFlag,
	}

	list, faulty, err := policy.LoadPolicyFile(settings.PolicyFile, req, settings.Strict)
	if err != nil || faulty {
		logger.Error("cannot fully process policy file", "path", settings.PolicyFile, "error", err)
		return fmt.Errorf("exiting due to error, cannot fully process %s", settings.PolicyFile)
	}

	_, span := tracer.Start(cmd.Context(), "policy.Evaluate")
	decision := policy.Evaluate(list, req)
	span.End()
	record := func(action string) {
		_ = emitter.Emit(actionlog.Record{
			Timestamp: time.Now(),
			User:      facts.Name,
			Cwd:       facts.Cwd,
			Tty:       facts.TTY,
			Action:    action,
			Target:    req.Target,
			Type:      req.AclType.String(),
			Reason:    req.Reason,
			Command:   sourceFile,
		}, decision.Syslog)
	}

	if !decision.Permit {
		record("deny")
		return fmt.Errorf("you may not edit %q on %s as %s", sourceFile, req.Hostname, req.Target)
	}
	if err := policy.ReasonOK(decision, req); err != nil {
		record("no_reason")
		return fmt.Errorf("sorry but no reason was given to edit %q on %s as %s", sourceFile, req.Hostname, req.Target)
	}

	if err := editflow.CheckNotSymlink(sourceFile); err != nil {
		return fmt.Errorf("you may not edit %q as it links elsewhere", sourceFile)
	}

	if decision.RequirePass {
		timeout := settings.TokenCache.FreshSeconds
		if decision.Timeout != nil {
			timeout = *decision.Timeout
		}
		challenger := authchallenge.New(unimplementedVerifier{}, tokens)
		challenger.Out = os.Stdout
		challenger.In = os.Stdin
		if err := challenger.Challenge(cmd.Context(), authchallenge.Request{
			User: facts.Name, Service: service, TTY: facts.TTY, PPID: facts.PPID,
			Timeout: timeout, Prompt: !noprompt, TTYFd: 0,
		}); err != nil {
			record("deny")
			return err
		}
	}

	targetUID, targetGID, _, _, err := invoker.LookupIdentity(req.Target)
	if err != nil {
		return err
	}

	sess := editflow.Session{
		Service:     service,
		SourceFile:  sourceFile,
		InvokerUID:  facts.UID,
		InvokerGID:  facts.GID,
		TargetUID:   targetUID,
		TargetGID:   targetGID,
		InvokerName: facts.Name,
		Env:         os.Environ(),
	}

	mode := editflow.EditModeOverride{}
	if decision.EditMode != nil {
		switch decision.EditMode.Kind {
		case policy.EditNumeric:
			mode = editflow.EditModeOverride{Set: true, Bits: decision.EditMode.Mode}
		case policy.EditKeep:
			if info, err := os.Stat(sourceFile); err == nil {
				mode = editflow.EditModeOverride{Set: true, Bits: int(info.Mode().Perm())}
			}
		}
	}

	if err := editflow.Edit(sess, editflow.GetEditor(), decision.ExitCmd, mode); err != nil {
		return fmt.Errorf("exiting as editor or child did not close cleanly: %w", err)
	}

	record("permit")
	return nil
}

// unimplementedVerifier mirrors cmd/please/cmd/root.go's PAM
// integration point; spec.md §1 places authentication out of scope.
type unimplementedVerifier struct{}

func (unimplementedVerifier) Verify(ctx context.Context, user, svc, password string) error {
	return fmt.Errorf("no authentication backend configured for this build")
}
