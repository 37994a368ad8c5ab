package publish

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/dustin/go-humanize"
	"github.com/jlaffaye/ftp"
)

const defaultFTPPort = 21

// FTPPublisher uploads over plain FTP with username/password login.
type FTPPublisher struct {
	opts Options
}

// NewFTPPublisher creates a publisher for FTP hosts.
func NewFTPPublisher(opts Options) *FTPPublisher {
	return &FTPPublisher{opts: opts}
}

// Publish connects, logs in, stores doc at dest.RemotePath and quits.
// The remote directory must already exist; FTP hosts usually hand out a
// fixed web root.
func (p *FTPPublisher) Publish(ctx context.Context, doc []byte, dest Destination) error {
	// --- 1. Connect ---
	addr := hostPort(dest.Host, defaultFTPPort)

	dialOpts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if p.opts.Timeout > 0 {
		dialOpts = append(dialOpts, ftp.DialWithTimeout(p.opts.Timeout))
	}

	log.Printf("INFO: Connecting to FTP server %s...", addr)
	conn, err := ftp.Dial(addr, dialOpts...)
	if err != nil {
		return fmt.Errorf("ftp dial %s: %w", addr, err)
	}
	// Quit is best effort; the upload result is what matters.
	defer func() {
		if err := conn.Quit(); err != nil {
			log.Printf("WARN: could not close FTP connection cleanly: %v", err)
			return
		}
		log.Println("INFO: FTP connection closed.")
	}()

	// --- 2. Log In ---
	if err := conn.Login(dest.Username, dest.Password); err != nil {
		return fmt.Errorf("ftp login as %s: %w", dest.Username, err)
	}
	log.Println("INFO: Connected to FTP server.")

	// --- 3. Store The Document ---
	// Stor replaces an existing file of the same name.
	if err := conn.Stor(dest.RemotePath, bytes.NewReader(doc)); err != nil {
		return fmt.Errorf("ftp upload to %s: %w", dest.RemotePath, err)
	}
	log.Printf("INFO: Uploaded %s to %s.", humanize.Bytes(uint64(len(doc))), dest.RemotePath)
	return nil
}
