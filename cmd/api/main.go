package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/PaulBabatuyi/security-app-api/internal/auth"
	"github.com/PaulBabatuyi/security-app-api/internal/config"
	"github.com/PaulBabatuyi/security-app-api/internal/data"
	"github.com/PaulBabatuyi/security-app-api/internal/db"
	"github.com/PaulBabatuyi/security-app-api/internal/telemetry"
)

func main() {
	log.SetPrefix("security-app-api ")
	log.SetFlags(log.LstdFlags | log.LUTC)

	// Read configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.UsesDevelopmentSecret() {
		log.Printf("WARNING: JWT_SECRET not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing is a no-op without an OTLP endpoint
	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTELEndpoint, cfg.OTELEnabled)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	// Initialize database
	dbClient, err := db.New(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.DBConnectAttempts)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	defer func() {
		_ = dbClient.Close(context.Background())
	}()

	// Ensure indexes exist
	if err := dbClient.CreateIndexes(ctx); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	// Revoked tokens go to Redis when REDIS_URL is set, memory otherwise
	denylist, closeDenylist, err := newDenylist(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to set up token denylist: %v", err)
	}
	defer closeDenylist()

	// Create stores
	st := stores{
		users:    data.NewUsersStore(dbClient.Collection(db.UsersCollection)),
		chats:    data.NewChatsStore(dbClient.Collection(db.ChatsCollection)),
		messages: data.NewMessagesStore(dbClient.Collection(db.MessagesCollection)),
		tasks:    data.NewTasksStore(dbClient.Collection(db.TasksCollection)),
		orders:   data.NewOrdersStore(dbClient.Collection(db.OrdersCollection)),
		sos:      data.NewSOSStore(dbClient.Collection(db.SOSAlertsCollection)),
		files:    data.NewFilesStore(dbClient.Collection(db.FilesCollection)),
	}
	// Initialize auth services and the HTTP API
	srv := newServer(st,
		auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		auth.NewPasswordHasher(cfg.BcryptCost),
		denylist,
		cfg.MaxUploadBytes,
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", httpServer.Addr)
		var err error
		if cfg.TLSEnabled() {
			err = httpServer.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server exit: %v", err)
		}
	}()

	// Optional gRPC health endpoint; reports NOT_SERVING while MongoDB is down
	var grpcServer *grpc.Server
	if cfg.GRPCPort != "" {
		// If TLS certs are configured, create server credentials and require TLS
		var opts []grpc.ServerOption
		if cfg.TLSEnabled() {
			creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
			if err != nil {
				log.Fatalf("failed to load TLS certs: %v", err)
			}
			opts = append(opts, grpc.Creds(creds))
		}

		gs, hs := newHealthServer(opts...)
		grpcServer = gs
		go watchStore(ctx, hs, dbClient, healthCheckInterval)

		listenAddr := fmt.Sprintf(":%s", cfg.GRPCPort)
		lis, err := net.Listen("tcp", listenAddr)
		if err != nil {
			log.Fatalf("failed to listen: %v", err)
		}
		go func() {
			log.Printf("gRPC health server listening on %s", listenAddr)
			if err := grpcServer.Serve(lis); err != nil {
				log.Fatalf("gRPC server exit: %v", err)
			}
		}()
	}

	// Graceful shutdown on SIGINT/SIGTERM
	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
}

// newDenylist returns a Redis-backed denylist when redisURL is set, and an
// in-memory one otherwise.
func newDenylist(ctx context.Context, redisURL string) (auth.Denylist, func(), error) {
	if redisURL == "" {
		return auth.NewMemoryDenylist(), func() {}, nil
	}
	client, err := auth.NewRedisClient(ctx, redisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("token denylist backed by Redis")
	return auth.NewRedisDenylist(client), func() { _ = client.Close() }, nil
}
