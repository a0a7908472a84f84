package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepgram/parley/internal/api/v1/handlers"
	"github.com/deepgram/parley/internal/config"
	"github.com/deepgram/parley/internal/connections"
	"github.com/deepgram/parley/internal/services"
	"github.com/deepgram/parley/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "parley",
		Short:        "Conversational chat gateway for OpenAI-compatible providers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.Init(config.GetLogLevel(), config.GetLogFormat())
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	root.PersistentFlags().Bool("mock", false, "Answer with canned replies instead of calling the AI provider")
	_ = config.Viper().BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = config.Viper().BindPFlag("use_mock_api", root.PersistentFlags().Lookup("mock"))

	root.AddCommand(newServeCmd(), newChatCmd())
	return root
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, config.GetListenAddr())
		},
	}

	cmd.Flags().StringP("listen", "l", ":8080", "Address for the server to listen on")
	_ = config.Viper().BindPFlag("listen_addr", cmd.Flags().Lookup("listen"))

	return cmd
}

func newChatCmd() *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "chat MESSAGE",
		Short: "Send a single message and print the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := services.InitializeServices()
			if err != nil {
				return err
			}
			defer svcs.Close()

			result := svcs.GetChatService().HandleChat(cmd.Context(), args[0], conversationID)
			fmt.Fprintln(cmd.OutOrStdout(), result.Response)
			fmt.Fprintf(cmd.ErrOrStderr(), "conversation: %s\n", result.ConversationID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "Conversation id to continue")
	return cmd
}

func serve(ctx context.Context, addr string) error {
	svcs, err := services.InitializeServices()
	if err != nil {
		return err
	}
	defer svcs.Close()

	manager := connections.NewManager(connections.DefaultTimeouts)
	server := &http.Server{
		Addr:              addr,
		Handler:           setupRouter(svcs, manager),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.RegisterOnShutdown(manager.CloseAll)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ListenAndServe error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
		return err
	}
	return nil
}

func setupRouter(svcs *services.Services, manager *connections.Manager) *mux.Router {
	r := mux.NewRouter()
	handlers.RegisterV1Routes(r, svcs, manager)
	return r
}
