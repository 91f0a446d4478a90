package remote

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/zhubert/rsync-tui/internal/errors"
)

// memLister serves an in-memory filesystem over a pipe so List can be
// exercised without a network.
func memLister(t *testing.T) (*SFTPLister, *sftp.Client) {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	server := sftp.NewRequestServer(serverConn, sftp.InMemHandler())
	go server.Serve()

	client, err := sftp.NewClientPipe(clientConn, clientConn)
	if err != nil {
		t.Fatalf("sftp client: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return &SFTPLister{client: client}, client
}

func TestSFTPLister_List(t *testing.T) {
	l, c := memLister(t)
	for _, dir := range []string{"/data", "/data/photos"} {
		if err := c.Mkdir(dir); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	f, err := c.Create("/data/notes.txt")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.Write([]byte("hello"))
	f.Close()

	entries, err := l.List(context.Background(), "/data")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := map[string]Entry{}
	for _, e := range entries {
		got[e.Name] = e
	}
	if len(got) != 2 {
		t.Fatalf("entries = %+v", entries)
	}
	if e := got["photos"]; !e.IsDir() || e.RemotePath != "/data/photos" {
		t.Errorf("photos = %+v", e)
	}
	if e := got["notes.txt"]; e.IsDir() || e.Size != 5 || e.RemotePath != "/data/notes.txt" {
		t.Errorf("notes.txt = %+v", e)
	}
}

func TestSFTPLister_ListEmptyAndMissing(t *testing.T) {
	l, c := memLister(t)
	if err := c.Mkdir("/empty"); err != nil {
		t.Fatal(err)
	}

	entries, err := l.List(context.Background(), "/empty")
	if err != nil || len(entries) != 0 {
		t.Errorf("empty dir = %v, %v", entries, err)
	}

	_, err = l.List(context.Background(), "/nope")
	if !errors.Is(err, errors.KindListing) {
		t.Errorf("missing dir error = %v, want listing failure", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.List(ctx, "/empty"); err == nil {
		t.Error("cancelled context should fail the listing")
	}
}

func TestSFTPLister_Home(t *testing.T) {
	l, _ := memLister(t)
	home, err := l.Home(context.Background())
	if err != nil || home == "" || home[0] != '/' {
		t.Errorf("Home() = %q, %v", home, err)
	}
}

func writeKey(t *testing.T) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	block, err := ssh.MarshalPrivateKey(priv, "")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "id_ed25519")
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAuthMethods(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")

	if _, err := authMethods(""); err == nil {
		t.Error("no agent and no key should be an error")
	}
	if _, err := authMethods(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("unreadable identity file should be an error")
	}
	methods, err := authMethods(writeKey(t))
	if err != nil || len(methods) != 1 {
		t.Errorf("authMethods(key) = %d methods, %v", len(methods), err)
	}
}

func TestHostKeyCallback(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "known_hosts")
	if err := os.WriteFile(empty, nil, 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := hostKeyCallback(empty); err != nil {
		t.Errorf("empty known_hosts: %v", err)
	}
	if _, err := hostKeyCallback(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("missing known_hosts should be an error")
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	tests := map[string]string{
		"~/.ssh/id_rsa": "/home/tester/.ssh/id_rsa",
		"/etc/key":      "/etc/key",
		"~other/key":    "~other/key",
	}
	for in, want := range tests {
		if got := expandHome(in); got != want {
			t.Errorf("expandHome(%q) = %q, want %q", in, got, want)
		}
	}
}
