package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/xtding233/vgmprofile/internal/config"
	"github.com/xtding233/vgmprofile/internal/httpapi"
	"github.com/xtding233/vgmprofile/internal/logging"
	"github.com/xtding233/vgmprofile/internal/profile"
	"github.com/xtding233/vgmprofile/internal/rom"
	"github.com/xtding233/vgmprofile/internal/server"
	"github.com/xtding233/vgmprofile/internal/service"
)

func newResolveCmd() *cobra.Command {
	var remote string
	cmd := &cobra.Command{
		Use:   "resolve <rom>",
		Short: "Print the configuration resolved for a GBA ROM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if remote != "" {
				image, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read rom: %w", err)
				}
				return withClient(cmd.Context(), remote, func(ctx context.Context, c *server.Client) error {
					out, err := c.Resolve(ctx, image)
					if err != nil {
						return err
					}
					return printProto(cmd.OutOrStdout(), out)
				})
			}

			dir, err := resolvedConfigDir()
			if err != nil {
				return err
			}
			r, err := rom.Open(args[0])
			if err != nil {
				return err
			}
			store, err := profile.LoadStore(profile.Paths{BaseDir: dir}.DocumentPath(profile.MP2KDocument))
			if err != nil {
				_ = r.Close()
				return err
			}
			cfg, err := profile.Build(store, r, profile.WithLogger(newLogger(cmd)))
			if err != nil {
				_ = r.Close()
				return err
			}
			defer cfg.Close()
			return printJSON(cmd.OutOrStdout(), cfg.Summary())
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "Resolve through a vgmprofile gRPC server at this address")
	return cmd
}

func newScanCmd() *cobra.Command {
	var ext string
	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Print the configuration built from a directory of sequence files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := profile.LoadDirectory(args[0], ext, profile.WithLogger(newLogger(cmd)))
			if err != nil {
				return err
			}
			defer cfg.Close()
			return printJSON(cmd.OutOrStdout(), cfg.Summary())
		},
	}
	cmd.Flags().StringVarP(&ext, "ext", "e", profile.PSFExtension, "Sequence file extension")
	return cmd
}

func newGamesCmd() *cobra.Command {
	var remote string
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List the games declared in MP2K.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if remote != "" {
				return withClient(cmd.Context(), remote, func(ctx context.Context, c *server.Client) error {
					out, err := c.ListGames(ctx)
					if err != nil {
						return err
					}
					return printProto(cmd.OutOrStdout(), out)
				})
			}
			dir, err := resolvedConfigDir()
			if err != nil {
				return err
			}
			svc := service.New(profile.NewLoader(dir), newLogger(cmd))
			games, err := svc.Games()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), games)
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "List through a vgmprofile gRPC server at this address")
	return cmd
}

func newServeCmd() *cobra.Command {
	var grpcAddr, httpAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve profile resolution over gRPC and HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadServeConfig()
			if err != nil {
				return err
			}
			if configDir != "" {
				cfg.ConfigDir = configDir
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if grpcAddr != "" {
				cfg.GRPCAddr = grpcAddr
			}
			if httpAddr != "" {
				cfg.HTTPAddr = httpAddr
			}
			if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&grpcAddr, "grpc-addr", "", "gRPC listen address (default $VGMPROFILE_GRPC_ADDR or :50051)")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP listen address (default $VGMPROFILE_HTTP_ADDR or :8080)")
	return cmd
}

func serve(ctx context.Context, cfg config.ServeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.NewLogger("vgmprofile", cfg.LogLevel, nil)
	loader := profile.NewLoader(cfg.ConfigDir)
	svc := service.New(loader, log.Named("service"))

	watcher := loader.WatchDocuments([]string{profile.MP2KDocument}, cfg.WatchInterval, func(path string) {
		log.Info("profile document changed, reloading", "path", path)
		svc.Reload()
	})
	watcher.Start()
	defer watcher.Stop()

	grpcServer, err := server.New(cfg.GRPCAddr, svc, log.Named("grpc"))
	if err != nil {
		return err
	}
	httpListener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		grpcServer.Close()
		return fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}
	httpServer := &http.Server{
		Handler:           httpapi.NewRouter(svc, log.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return grpcServer.Serve(ctx) })
	g.Go(func() error {
		log.Info("http server listening", "addr", httpListener.Addr().String())
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func withClient(ctx context.Context, addr string, fn func(context.Context, *server.Client) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return fn(ctx, server.NewClient(conn))
}

// resolvedConfigDir prefers --config-dir over VGMPROFILE_CONFIG_DIR.
func resolvedConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	cfg, err := config.LoadProfileConfig()
	if err != nil {
		return "", err
	}
	return cfg.ConfigDir, nil
}

func newLogger(cmd *cobra.Command) hclog.Logger {
	return logging.NewLogger("vgmprofile", logLevel, cmd.ErrOrStderr())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProto(w io.Writer, m proto.Message) error {
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(m)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
