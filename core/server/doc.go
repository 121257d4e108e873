// Package server runs an http.Handler with context-driven graceful shutdown.
//
// Serve blocks until its context is cancelled, stops accepting connections,
// waits up to the shutdown timeout for in-flight requests and then closes
// whatever is still open:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := server.New(":8080",
//		server.WithLogger(log),
//		server.WithShutdownTimeout(10*time.Second),
//	)
//	if err := srv.Run(ctx, handler); err != nil {
//		log.Error("server stopped", "error", err)
//	}
//
// HTTPS uses certificates loaded from files:
//
//	tlsCfg, err := server.NewTLSConfig(server.WithTLSCertificate("cert.pem", "key.pem"))
//	srv := server.New(":8443", server.WithTLS(tlsCfg))
//
// Settings can also come from the environment through Config and
// NewFromConfig.
package server
