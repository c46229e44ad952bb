package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MKhiriev/go-ftp-keeper/internal/config"
	"github.com/MKhiriev/go-ftp-keeper/internal/crypto"
	"github.com/MKhiriev/go-ftp-keeper/internal/history"
	"github.com/MKhiriev/go-ftp-keeper/internal/logger"
	"github.com/MKhiriev/go-ftp-keeper/internal/vault"
)

type App struct {
	cfg *config.StructuredConfig
	log *logger.Logger

	store *vault.Store

	stdin  io.Reader
	reader *bufio.Reader
	stdout io.Writer
}

func NewApp(cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}

	engine := crypto.NewEngine(crypto.Params{
		Time:      cfg.Vault.KDF.MinTime,
		MemoryKiB: cfg.Vault.KDF.MinMemoryKiB,
		Threads:   cfg.Vault.KDF.MinThreads,
	})

	return &App{
		cfg:    cfg,
		log:    log,
		store:  vault.NewStore(cfg.Vault, engine, log),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}, nil
}

// Run dispatches the subcommand given on the command line after the flags.
func (a *App) Run(args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return nil
	}

	cmd, rest := args[0], args[1:]

	// Commands that do not need an unlocked vault.
	switch cmd {
	case "help":
		a.printUsage()
		return nil
	case "init":
		return a.cmdInit()
	case "history":
		return a.cmdHistory(rest)
	}

	handle, err := a.unlock()
	if err != nil {
		return err
	}
	defer handle.Lock()

	switch cmd {
	case "list":
		return a.cmdList(handle)
	case "add":
		return a.cmdAdd(handle, rest)
	case "rm":
		return a.cmdRemove(handle, rest)
	case "copy":
		return a.cmdCopy(handle, rest)
	case "passwd":
		return a.cmdChangePassword(handle)
	case "ls":
		return a.cmdRemoteList(handle, rest)
	case "mkdir":
		return a.cmdRemoteMkdir(handle, rest)
	case "rmdir":
		return a.cmdRemoteRmdir(handle, rest)
	case "mv":
		return a.cmdRemoteRename(handle, rest)
	case "del":
		return a.cmdRemoteDelete(handle, rest)
	case "upload":
		return a.cmdUpload(handle, rest)
	case "download":
		return a.cmdDownload(handle, rest)
	default:
		a.printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// unlock prompts for the master password and opens the vault.
func (a *App) unlock() (*vault.Handle, error) {
	password, err := a.readPassword("Master password: ")
	if err != nil {
		return nil, err
	}
	defer wipe(password)

	handle, err := a.store.Unlock(a.cfg.Vault.Path, password)
	if err != nil {
		if errors.Is(err, vault.ErrWrongPassword) {
			return nil, errors.New("wrong master password or corrupted vault")
		}
		return nil, err
	}
	return handle, nil
}

// openRecorder opens the history store, or returns nil when history is
// disabled by configuration.
func (a *App) openRecorder() (*history.Store, func(), error) {
	if a.cfg.Storage.HistoryDSN == "" {
		return nil, func() {}, nil
	}

	db, err := history.NewConnectSQLite(context.Background(), a.cfg.Storage, a.log)
	if err != nil {
		return nil, nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate history database: %w", err)
	}
	return history.NewStore(db, a.log), func() { _ = db.Close() }, nil
}

func (a *App) printUsage() {
	fmt.Fprint(a.stdout, `Usage: ftpkeeper [flags] <command> [args]

Vault:
  init                                    create a new vault
  list                                    list connection profiles
  add <name> <url>                        add a profile, e.g. sftp://alice@nas.local:22/home/alice
  rm <name>                               remove a profile
  copy <name>                             copy a profile password to the clipboard
  passwd                                  change the master password

Remote:
  ls <name> [path]                        list a remote directory
  mkdir <name> <path>                     create a remote directory
  rmdir <name> <path>                     remove an empty remote directory
  mv <name> <old> <new>                   rename a remote file or directory
  del <name> <path>                       delete a remote file

Transfers:
  upload <name> <local> <remote>          upload a file
  download <name> <remote> <local>        download a file
  history [n]                             show the n most recent transfers (default 20)
`)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
