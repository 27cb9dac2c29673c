package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/oshokin/mc-bootstrap/internal/config"
	"github.com/oshokin/mc-bootstrap/internal/domain/setup"
	"github.com/oshokin/mc-bootstrap/internal/logger"
	repository "github.com/oshokin/mc-bootstrap/internal/repository/properties"
	"github.com/oshokin/mc-bootstrap/internal/service/artifact"
	"github.com/oshokin/mc-bootstrap/internal/service/launcher"
	"github.com/oshokin/mc-bootstrap/internal/service/prompt"
)

const (
	// EULAFilename is written by the server on its first start.
	EULAFilename = "eula.txt"
	// PropertiesFilename is written by the server once the EULA is accepted.
	PropertiesFilename = "server.properties"

	// serverPort is the default Minecraft Java port mentioned in the final instructions.
	serverPort = 25565
)

// Options are inputs accepted by the bootstrap entry point.
// Zero values keep the settings from the configuration file.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// ServerDir overrides the server directory.
	ServerDir string
	// Version overrides the Minecraft version.
	Version string
	// Latest selects the latest release.
	Latest bool
	// DownloadURL downloads server.jar from a fixed URL instead of the manifest.
	DownloadURL string
	// JavaPath overrides the java executable.
	JavaPath string
	// MinHeap and MaxHeap override the heap flags.
	MinHeap string
	MaxHeap string
	// NoGUI overrides whether "nogui" is passed.
	NoGUI *bool
	// AgreeEULA accepts the license without prompting.
	AgreeEULA bool
	// Whitelist and OnlineMode patch server.properties when set.
	Whitelist  *bool
	OnlineMode *bool
	// RunServer answers the "start now" prompt in advance when set.
	RunServer *bool
	// Stdin and Stdout are the operator's terminal; nil means os.Stdin and os.Stdout.
	Stdin  io.ReadCloser
	Stdout io.Writer
	// Stderr receives the server's error output; nil means os.Stderr.
	Stderr io.Writer
}

// asker is the operator interaction used by the workflow.
type asker interface {
	Confirm(ctx context.Context, question string) (bool, error)
	AcceptLicense(ctx context.Context) (setup.AcceptanceDecision, error)
	RunNow(ctx context.Context) (setup.RunDecision, error)
	Console() io.Reader
}

// bootstrapper holds the state of a single setup run.
// It is unexported; call Run(ctx, Options) from callers.
type bootstrapper struct {
	cfg        *config.Config
	ask        asker
	resolver   *artifact.Resolver
	fetcher    *artifact.Fetcher
	runner     *launcher.Runner
	eula       *repository.FileRepository
	properties *repository.FileRepository
	tracker    *setup.Tracker
	// runServer pre-answers the "start now" prompt when set.
	runServer *bool
	// scriptJava is the java command written to start scripts.
	scriptJava string
}

// Run executes the bootstrap workflow and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "mc-bootstrap")

	cfg, err := opts.settings()
	if err != nil {
		return report(ctx, err)
	}

	ctx = logger.WithKV(ctx, "server_dir", cfg.ServerDir)

	stdin, stdout, stderr := opts.stdio()

	prompter, closePrompter, err := prompt.NewTerminal(stdin, stdout)
	if err != nil {
		return report(ctx, err)
	}

	defer func() {
		_ = closePrompter()
	}()

	b := newBootstrapper(cfg, prompter, stdout, stderr)
	b.runServer = opts.RunServer

	if err = b.Run(ctx); err != nil {
		return report(ctx, err)
	}

	return nil
}

// report logs err with an operator hint and returns it unchanged.
func report(ctx context.Context, err error) error {
	logger.ErrorKV(ctx, "Bootstrap failed", "error", err)

	if advice := setup.Advice(err); advice != "" {
		logger.Warn(ctx, advice)
	}

	return err
}

// newBootstrapper wires the workflow for cfg.
// Java is looked up only when a step has to start the server.
func newBootstrapper(cfg *config.Config, ask asker, stdout, stderr io.Writer) *bootstrapper {
	scriptJava := launcher.DefaultJava
	if cfg.JavaPath != "" {
		scriptJava = cfg.JavaPath
	}

	return &bootstrapper{
		cfg:      cfg,
		ask:      ask,
		resolver: artifact.NewResolver(cfg.ManifestURLs, cfg.Timeout),
		fetcher:  artifact.NewFetcher(cfg.Timeout),
		runner: &launcher.Runner{
			Dir:     cfg.ServerDir,
			JarName: launcher.DefaultJarName,
			MinHeap: cfg.MinHeap,
			MaxHeap: cfg.MaxHeap,
			NoGUI:   cfg.NoGUI == nil || *cfg.NoGUI,
			Stdout:  stdout,
			Stderr:  stderr,
		},
		eula:       repository.NewFileRepository(filepath.Join(cfg.ServerDir, EULAFilename)),
		properties: repository.NewFileRepository(filepath.Join(cfg.ServerDir, PropertiesFilename)),
		tracker:    setup.NewTracker(),
		scriptJava: scriptJava,
	}
}

// Run walks every stage:
// 1) Download server.jar.
// 2) Write start scripts.
// 3) Run the server once to generate eula.txt.
// 4) Ask for and apply EULA acceptance.
// 5) Optionally start the server.
// 6) Patch server.properties and print next steps.
func (b *bootstrapper) Run(ctx context.Context) error {
	if err := os.MkdirAll(b.cfg.ServerDir, artifact.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: create server directory: %w", setup.ErrFilesystem, err)
	}

	marker, err := acquireMarker(ctx, b.cfg.ServerDir)
	if err != nil {
		return err
	}

	defer marker.release(ctx)

	if err = b.FetchArtifact(ctx); err != nil {
		return fmt.Errorf("fetch artifact: %w", err)
	}

	scripts, err := b.runner.WriteScripts(b.scriptJava)
	if err != nil {
		return fmt.Errorf("write start scripts: %w", err)
	}

	logger.InfoKV(ctx, "Wrote start scripts", "paths", scripts)

	if err = b.RunOnceToGenerateConfig(ctx); err != nil {
		return fmt.Errorf("generate %s: %w", EULAFilename, err)
	}

	decision, err := b.PromptAcceptLicense(ctx)
	if err != nil {
		return err
	}

	if err = b.ApplyAcceptance(ctx, decision); err != nil {
		return fmt.Errorf("apply license decision: %w", err)
	}

	if decision == setup.Declined {
		return nil
	}

	runDecision, err := b.PromptRunNow(ctx)
	if err != nil {
		return err
	}

	if err = b.LaunchServer(ctx, runDecision); err != nil {
		return err
	}

	if ctx.Err() != nil {
		logger.Info(ctx, "Interrupted, skipping the remaining steps")

		return nil
	}

	if err = b.PatchProperties(ctx); err != nil {
		return fmt.Errorf("patch %s: %w", PropertiesFilename, err)
	}

	b.printNextSteps(ctx)

	return nil
}

// Stage returns the current workflow stage.
func (b *bootstrapper) Stage() setup.Stage {
	return b.tracker.Current()
}

// FetchArtifact downloads server.jar unless it exists and the operator keeps it.
func (b *bootstrapper) FetchArtifact(ctx context.Context) error {
	jarPath := b.jarPath()

	info, err := os.Stat(jarPath)

	switch {
	case err != nil:
		// Not downloaded yet.
	case info.Size() == 0:
		logger.WarnKV(ctx, "Found empty server.jar left by an interrupted download, downloading again", "path", jarPath)
	default:
		again, err := b.ask.Confirm(ctx, "server.jar already exists. Re-download and overwrite?")
		if err != nil {
			return err
		}

		if !again {
			logger.Info(ctx, "Keeping existing server.jar")

			return b.tracker.Advance(setup.ArtifactFetched)
		}
	}

	request, err := b.downloadRequest(ctx)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Downloading server.jar", "url", request.URL)

	if _, err = b.fetcher.Fetch(ctx, request); err != nil {
		return err
	}

	return b.tracker.Advance(setup.ArtifactFetched)
}

// downloadRequest builds the request from a fixed URL or the version manifest.
func (b *bootstrapper) downloadRequest(ctx context.Context) (*artifact.Request, error) {
	if b.cfg.DownloadURL != "" {
		return &artifact.Request{
			URL:         b.cfg.DownloadURL,
			Destination: b.jarPath(),
		}, nil
	}

	release, err := b.resolver.Resolve(ctx, b.cfg.Version, b.cfg.Latest)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Selected Minecraft version", "version", release.Version)

	return &artifact.Request{
		URL:         release.URL,
		Destination: b.jarPath(),
		SHA1:        release.SHA1,
		Size:        release.Size,
	}, nil
}

// RunOnceToGenerateConfig runs the server once so it writes eula.txt.
// The server is expected to exit with a non-zero code on this run. A launch
// failure is tolerated only when eula.txt already exists.
func (b *bootstrapper) RunOnceToGenerateConfig(ctx context.Context) error {
	if b.eula.Exists() {
		logger.InfoKV(ctx, "Found existing eula.txt, skipping first run", "path", b.eula.Path())

		return b.tracker.Advance(setup.ConfigGenerated)
	}

	if err := b.resolveJava(ctx); err != nil {
		return err
	}

	code, err := b.runner.RunOnce(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("first run interrupted: %w", ctxErr)
	}

	if err != nil && !b.eula.Exists() {
		return err
	}

	if err != nil {
		logger.WarnKV(ctx, "First run failed but eula.txt exists", "error", err)
	} else if code != 0 {
		logger.InfoKV(ctx, "Server stopped as expected on first run", "code", code)
	}

	if !b.eula.Exists() {
		return fmt.Errorf("%s still missing after first run, check the server output above: %w",
			b.eula.Path(), setup.ErrConfigNotFound)
	}

	return b.tracker.Advance(setup.ConfigGenerated)
}

// PromptAcceptLicense asks the operator to accept the EULA unless it was agreed in advance.
func (b *bootstrapper) PromptAcceptLicense(ctx context.Context) (setup.AcceptanceDecision, error) {
	if b.cfg.AgreeEULA {
		logger.Info(ctx, "EULA accepted via --agree-eula")

		return setup.Accepted, nil
	}

	return b.ask.AcceptLicense(ctx)
}

// ApplyAcceptance writes the decision to eula.txt and advances the stage.
func (b *bootstrapper) ApplyAcceptance(ctx context.Context, decision setup.AcceptanceDecision) error {
	if err := ApplyAcceptance(ctx, b.eula, decision); err != nil {
		return err
	}

	if decision == setup.Accepted {
		logger.InfoKV(ctx, "Set eula=true", "path", b.eula.Path())

		return b.tracker.Advance(setup.LicenseAccepted)
	}

	logger.Warn(ctx, "EULA not accepted. Setup completed, but the server will not run until eula=true.")
	logger.Warnf(ctx, "Edit %s and set eula=true, then run again or use the start script.", b.eula.Path())

	return b.tracker.Advance(setup.LicenseDeclinedPendingManualEdit)
}

// PromptRunNow asks whether to start the server unless it was answered in advance.
func (b *bootstrapper) PromptRunNow(ctx context.Context) (setup.RunDecision, error) {
	if b.runServer != nil {
		if *b.runServer {
			return setup.RunNow, nil
		}

		return setup.Skip, nil
	}

	return b.ask.RunNow(ctx)
}

// LaunchServer starts the server in the foreground for RunNow and waits for it.
func (b *bootstrapper) LaunchServer(ctx context.Context, decision setup.RunDecision) error {
	if decision != setup.RunNow {
		return b.tracker.Advance(setup.Idle)
	}

	if err := b.resolveJava(ctx); err != nil {
		return fmt.Errorf("launch server: %w", err)
	}

	if err := b.tracker.Advance(setup.ServerRunning); err != nil {
		return err
	}

	logger.Info(ctx, "Type 'stop' or press Ctrl+C to shut the server down")

	b.runner.Stdin = b.ask.Console()

	code, err := b.runner.Launch(ctx)
	if err != nil {
		return fmt.Errorf("launch server: %w", err)
	}

	if ctx.Err() != nil {
		logger.InfoKV(ctx, "Server stopped on interrupt", "code", code)

		return nil
	}

	logger.InfoKV(ctx, "Server exited", "code", code)

	return nil
}

// resolveJava locates the java executable on first use.
func (b *bootstrapper) resolveJava(ctx context.Context) error {
	if b.runner.Java != "" {
		return nil
	}

	java, err := launcher.FindJava(b.cfg.JavaPath)
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Using java", "path", java)
	b.runner.Java = java

	return nil
}

// PatchProperties applies whitelist and online-mode settings to server.properties if it exists.
func (b *bootstrapper) PatchProperties(ctx context.Context) error {
	if b.cfg.Whitelist == nil && b.cfg.OnlineMode == nil {
		return nil
	}

	if !b.properties.Exists() {
		logger.InfoKV(ctx, "server.properties not generated yet, skipping property changes", "path", b.properties.Path())

		return nil
	}

	doc, err := b.properties.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", setup.ErrFilesystem, err)
	}

	changed := false

	if b.cfg.Whitelist != nil {
		value := strconv.FormatBool(*b.cfg.Whitelist)
		changed = doc.Set("white-list", value) || changed
		changed = doc.Set("enforce-whitelist", value) || changed
	}

	if b.cfg.OnlineMode != nil {
		changed = doc.Set("online-mode", strconv.FormatBool(*b.cfg.OnlineMode)) || changed
	}

	if !changed {
		return nil
	}

	if err = b.properties.Save(ctx, doc); err != nil {
		return fmt.Errorf("%w: %w", setup.ErrFilesystem, err)
	}

	logger.InfoKV(ctx, "Updated server.properties", "path", b.properties.Path())

	return nil
}

// printNextSteps logs how to start the server and what to configure next.
func (b *bootstrapper) printNextSteps(ctx context.Context) {
	var builder strings.Builder

	builder.WriteString("Done.\nTo start the server:\n  ")

	if runtime.GOOS == "windows" {
		builder.WriteString(filepath.Join(b.cfg.ServerDir, launcher.BatchScriptName))
	} else {
		builder.WriteString("cd " + b.cfg.ServerDir + " && ./" + launcher.ShellScriptName)
	}

	builder.WriteString("\nNext steps:\n")
	builder.WriteString("  - Set a whitelist (recommended).\n")
	fmt.Fprintf(&builder, "  - Port forward TCP %d to this machine's LAN IP if hosting publicly.", serverPort)

	logger.Info(ctx, builder.String())
}

func (b *bootstrapper) jarPath() string {
	return filepath.Join(b.cfg.ServerDir, launcher.DefaultJarName)
}

// ApplyAcceptance sets eula=true in the file behind eula for Accepted and does
// nothing for Declined. A missing file is reported as setup.ErrConfigNotFound.
func ApplyAcceptance(ctx context.Context, eula repository.Repository, decision setup.AcceptanceDecision) error {
	if decision != setup.Accepted {
		return nil
	}

	doc, err := eula.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %w", setup.ErrConfigNotFound, err)
	}

	if err != nil {
		return fmt.Errorf("%w: %w", setup.ErrFilesystem, err)
	}

	if !doc.Set("eula", "true") {
		return nil
	}

	if err = eula.Save(ctx, doc); err != nil {
		return fmt.Errorf("%w: %w", setup.ErrFilesystem, err)
	}

	return nil
}

// settings loads the configuration file and applies the option overrides.
func (o *Options) settings() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}

	overrideString(&cfg.ServerDir, o.ServerDir)
	overrideString(&cfg.DownloadURL, o.DownloadURL)
	overrideString(&cfg.JavaPath, o.JavaPath)
	overrideString(&cfg.MinHeap, o.MinHeap)
	overrideString(&cfg.MaxHeap, o.MaxHeap)

	switch {
	case o.Latest && o.Version != "":
		cfg.Latest, cfg.Version = true, o.Version
	case o.Latest:
		cfg.Latest, cfg.Version = true, ""
	case o.Version != "":
		cfg.Latest, cfg.Version = false, o.Version
	}

	if o.NoGUI != nil {
		cfg.NoGUI = o.NoGUI
	}

	if o.Whitelist != nil {
		cfg.Whitelist = o.Whitelist
	}

	if o.OnlineMode != nil {
		cfg.OnlineMode = o.OnlineMode
	}

	cfg.AgreeEULA = cfg.AgreeEULA || o.AgreeEULA

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// stdio returns the operator streams with process defaults filled in.
func (o *Options) stdio() (io.ReadCloser, io.Writer, io.Writer) {
	stdin, stdout, stderr := o.Stdin, o.Stdout, o.Stderr

	if stdin == nil {
		stdin = os.Stdin
	}

	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return stdin, stdout, stderr
}

func overrideString(target *string, value string) {
	if value != "" {
		*target = value
	}
}
