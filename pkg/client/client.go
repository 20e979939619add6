// Package client issues SetLoad calls and renders the progress stream.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"cpuload/internal/buildinfo"
	"cpuload/pkg/load"
	"cpuload/pkg/loadpb"
	"cpuload/pkg/progress"
)

// DefaultAddress is the loopback address the server binds by default.
const DefaultAddress = "[::1]:50051"

var errNilPrinter = errors.New("client: printer is required")

// Printer renders progress updates as they arrive.
type Printer interface {
	Print(update progress.Update) error
	Close() error
}

// Client wraps a LoadService connection.
type Client struct {
	conn   io.Closer
	rpc    loadpb.LoadServiceClient
	logger *zap.Logger
}

// Dial opens an insecure connection to addr. Extra options are appended after
// the defaults.
func Dial(addr string, logger *zap.Logger, opts ...grpc.DialOption) (*Client, error) {
	if addr == "" {
		addr = DefaultAddress
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUserAgent("cpuload/" + buildinfo.Current().Version),
	}, opts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	client := New(conn, logger)
	client.conn = conn

	return client, nil
}

// New wraps an existing connection. Close does not close conn.
func New(conn grpc.ClientConnInterface, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		rpc:    loadpb.NewLoadServiceClient(conn),
		logger: logger,
	}
}

// Close releases the connection opened by Dial.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	if err != nil {
		return fmt.Errorf("close connection: %w", err)
	}

	return nil
}

// SetLoad sends one request and prints every update until the server closes
// the stream. It returns the last update received.
func (c *Client) SetLoad(ctx context.Context, req load.Request, printer Printer) (progress.Update, error) {
	var last progress.Update

	if printer == nil {
		return last, errNilPrinter
	}

	msg := &loadpb.Load{Cpus: req.CPUs, TimeSeconds: req.Seconds}
	c.logger.Debug("sending load request", zap.Stringer("load", msg))

	stream, err := c.rpc.SetLoad(ctx, msg)
	if err != nil {
		return last, fmt.Errorf("set load: %w", err)
	}

	for {
		reply, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}

		if recvErr != nil {
			_ = printer.Close()

			return last, fmt.Errorf("receive progress: %w", recvErr)
		}

		last = progress.Update{Elapsed: reply.GetSpentSeconds(), Total: reply.GetTotalSeconds()}

		err = printer.Print(last)
		if err != nil {
			_ = printer.Close()

			return last, fmt.Errorf("print progress: %w", err)
		}
	}

	err = printer.Close()
	if err != nil {
		return last, fmt.Errorf("close printer: %w", err)
	}

	return last, nil
}
