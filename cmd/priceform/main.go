package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-priceform/internal/config"
	"github.com/goliatone/go-priceform/pkg/client"
	"github.com/goliatone/go-priceform/pkg/controller"
	"github.com/goliatone/go-priceform/pkg/model"
	pkgopenapi "github.com/goliatone/go-priceform/pkg/openapi"
	"github.com/goliatone/go-priceform/pkg/orchestrator"
	"github.com/goliatone/go-priceform/pkg/render"
	"github.com/goliatone/go-priceform/pkg/renderers/tui"
	"github.com/goliatone/go-priceform/pkg/renderers/vanilla"
	"github.com/goliatone/go-priceform/pkg/server"
)

func main() {
	logger := log.New(os.Stderr, "priceform: ", log.LstdFlags)

	envFile := ".env"
	if value := os.Getenv("PRICEFORM_ENV_FILE"); value != "" {
		envFile = value
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "web, tui or render")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address in web mode")
	flag.StringVar(&cfg.APIURL, "api", cfg.APIURL, "prediction service base URL")
	flag.StringVar(&cfg.Schema, "schema", cfg.Schema, "OpenAPI document path or URL (embedded contract if empty)")
	flag.StringVar(&cfg.UISchemaDir, "ui", cfg.UISchemaDir, "UI schema directory (embedded overlay if empty)")
	flag.StringVar(&cfg.Theme, "theme", cfg.Theme, "theme name")
	flag.StringVar(&cfg.Variant, "variant", cfg.Variant, "theme variant")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "prediction request timeout (0 disables)")
	rendererName := flag.String("renderer", vanilla.Name, "renderer used in render mode")
	output := flag.String("output", "", "output file in render mode (stdout if empty)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *rendererName, *output); err != nil {
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
			return
		}
		logger.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg config.Config, logger *log.Logger, rendererName, output string) error {
	options := []orchestrator.Option{orchestrator.WithDefaultTheme(cfg.Theme, cfg.Variant)}
	if cfg.UISchemaDir != "" {
		options = append(options, orchestrator.WithUISchemaFS(os.DirFS(cfg.UISchemaDir)))
	}
	orch := orchestrator.New(options...)

	req := orchestrator.Request{}
	if cfg.Schema != "" {
		src, err := pkgopenapi.ResolveSource(cfg.Schema)
		if err != nil {
			return err
		}
		req.Source = src
	}

	form, err := orch.Form(ctx, req)
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}

	predictor := client.New(cfg.APIURL, client.WithTimeout(cfg.Timeout))

	switch cfg.Mode {
	case config.ModeTUI:
		return runTerminal(ctx, form, predictor, logger)
	case config.ModeRender:
		return renderOnce(ctx, orch, form, rendererName, output)
	default:
		srv, err := server.New(form, orch, predictor,
			server.WithLogger(logger),
			server.WithTheme(cfg.Theme, cfg.Variant),
			server.WithAssets(vanilla.AssetsFS()),
		)
		if err != nil {
			return err
		}
		logger.Printf("predictions go to %s", predictor.Endpoint())
		return srv.Run(ctx, cfg.Addr)
	}
}

func runTerminal(ctx context.Context, form model.FormModel, predictor client.Predictor, logger *log.Logger) error {
	ctrl, err := controller.New(predictor, controller.WithLogger(logger))
	if err != nil {
		return err
	}
	defer ctrl.Close()

	renderer, err := tui.New(tui.WithRepeat(true))
	if err != nil {
		return err
	}
	return renderer.Run(ctx, form, ctrl)
}

func renderOnce(ctx context.Context, orch *orchestrator.Orchestrator, form model.FormModel, rendererName, output string) error {
	page, err := orch.Render(ctx, form, orchestrator.Request{
		Renderer: rendererName,
		RenderOptions: render.RenderOptions{
			Values: render.FeatureValues(model.DefaultFeatures()),
			State:  model.Idle(),
		},
	})
	if err != nil {
		return fmt.Errorf("render form: %w", err)
	}

	if output == "" {
		_, err = os.Stdout.Write(page)
		return err
	}
	if err := os.WriteFile(output, page, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Form written to %s\n", output)
	return nil
}
