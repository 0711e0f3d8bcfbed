package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"xdao.co/blsaddr/config"
	"xdao.co/blsaddr/grpcenc"
)

func main() {
	fs := flag.NewFlagSet("blsaddrd", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file (optional)")
	listen := fs.String("listen", "", "listen address (overrides config)")

	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	opts, err := cfg.EncoderOptions()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := cfg.NewLogger()

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	serverOpts := []grpc.ServerOption{grpc.UnaryInterceptor(grpcenc.UnaryLogger(logger))}
	if cfg.GRPC.MaxMsgBytes > 0 {
		serverOpts = append(serverOpts,
			grpc.MaxRecvMsgSize(cfg.GRPC.MaxMsgBytes),
			grpc.MaxSendMsgSize(cfg.GRPC.MaxMsgBytes),
		)
	}
	s := grpc.NewServer(serverOpts...)
	grpcenc.RegisterEncoderServer(s, &grpcenc.Server{Defaults: opts})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.WithFields(log.Fields{"module": "blsaddrd"}).Info("shutting down")
		s.GracefulStop()
	}()

	logger.WithFields(log.Fields{
		"module": "blsaddrd",
		"listen": lis.Addr().String(),
		"prefix": opts.Prefix,
		"path":   opts.Path.String(),
		"mode":   opts.Mode.String(),
	}).Info("listening")
	if err := s.Serve(lis); err != nil {
		logger.WithFields(log.Fields{"module": "blsaddrd"}).Error(err)
		os.Exit(1)
	}
}
