package publish

import (
	"context"
	"fmt"
	"log"
	"net"
	"path"

	"github.com/dustin/go-humanize"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const defaultSSHPort = 22

// SFTPPublisher uploads over SSH with password authentication.
type SFTPPublisher struct {
	opts Options
}

// NewSFTPPublisher creates a publisher for SFTP hosts.
func NewSFTPPublisher(opts Options) *SFTPPublisher {
	return &SFTPPublisher{opts: opts}
}

// hostKeyCallback verifies the server against the configured known_hosts
// file. Without one, any host key is accepted and a warning is logged.
func (p *SFTPPublisher) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if p.opts.SSHKnownHosts == "" {
		log.Println("WARN: SSH_KNOWN_HOSTS not set, the server's host key will not be verified.")
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(p.opts.SSHKnownHosts)
	if err != nil {
		return nil, fmt.Errorf("load known hosts %s: %w", p.opts.SSHKnownHosts, err)
	}
	return cb, nil
}

// Publish opens an SSH session, creates the remote directory if needed and
// writes doc to dest.RemotePath. Cancelling ctx aborts the transfer.
func (p *SFTPPublisher) Publish(ctx context.Context, doc []byte, dest Destination) error {
	// --- 1. Prepare The SSH Client ---
	hostKeys, err := p.hostKeyCallback()
	if err != nil {
		return err
	}

	addr := hostPort(dest.Host, defaultSSHPort)
	config := &ssh.ClientConfig{
		User:            dest.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(dest.Password)},
		HostKeyCallback: hostKeys,
		Timeout:         p.opts.Timeout,
	}

	// --- 2. Connect ---
	// Dialing ourselves lets ctx interrupt both the dial and, through
	// AfterFunc, everything after it.
	log.Printf("INFO: Connecting to SFTP server %s...", addr)
	dialer := net.Dialer{Timeout: p.opts.Timeout}
	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("sftp dial %s: %w", addr, err)
	}
	stop := context.AfterFunc(ctx, func() { netConn.Close() })
	defer stop()

	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, config)
	if err != nil {
		netConn.Close()
		return fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)
	defer sshClient.Close()

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		return fmt.Errorf("start sftp session: %w", err)
	}
	defer func() {
		client.Close()
		log.Println("INFO: SFTP connection closed.")
	}()
	log.Println("INFO: Connected to SFTP server.")

	// --- 3. Upload ---
	if err := client.MkdirAll(path.Dir(dest.RemotePath)); err != nil {
		return fmt.Errorf("create remote directory for %s: %w", dest.RemotePath, err)
	}

	f, err := client.Create(dest.RemotePath)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest.RemotePath, err)
	}
	if _, err := f.Write(doc); err != nil {
		f.Close()
		return fmt.Errorf("sftp upload to %s: %w", dest.RemotePath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("finish upload to %s: %w", dest.RemotePath, err)
	}

	log.Printf("INFO: Uploaded %s to %s.", humanize.Bytes(uint64(len(doc))), dest.RemotePath)
	return nil
}
