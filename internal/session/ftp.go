// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/MKhiriev/go-ftp-keeper/internal/logger"
	"github.com/MKhiriev/go-ftp-keeper/models"
)

// ftpSession adapts one FTP or FTPS control connection to the Session
// interface. FTPS is plain FTP upgraded with explicit TLS (AUTH TLS) at
// dial time; every operation afterwards is identical.
type ftpSession struct {
	conn *ftp.ServerConn
	log  *logger.Logger
}

// dialFTP connects, optionally upgrades to TLS, authenticates, and changes
// into the profile's start path.
func dialFTP(ctx context.Context, profile models.ConnectionProfile, connectTimeout time.Duration, log *logger.Logger) (Session, error) {
	opts := []ftp.DialOption{
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(connectTimeout),
	}
	if profile.Protocol == models.FTPS {
		opts = append(opts, ftp.DialWithExplicitTLS(&tls.Config{
			ServerName: profile.Host,
			MinVersion: tls.VersionTLS12,
		}))
	}

	conn, err := ftp.Dial(profile.Address(), opts...)
	if err != nil {
		return nil, classify(err)
	}

	if err := conn.Login(profile.Username, profile.Credential.Secret); err != nil {
		_ = conn.Quit()
		return nil, classify(err)
	}

	if profile.StartPath != "" {
		if err := conn.ChangeDir(profile.StartPath); err != nil {
			_ = conn.Quit()
			return nil, classify(err)
		}
	}

	log.Debug().
		Str("profile_id", profile.ID.String()).
		Str("protocol", profile.Protocol.String()).
		Str("address", profile.Address()).
		Msg("ftp session established")

	return &ftpSession{conn: conn, log: log}, nil
}

func (s *ftpSession) List(_ context.Context, path string) ([]models.RemoteFile, error) {
	entries, err := s.conn.List(path)
	if err != nil {
		return nil, classify(err)
	}

	files := make([]models.RemoteFile, 0, len(entries))
	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		files = append(files, models.RemoteFile{
			Name:    e.Name,
			Path:    joinRemote(path, e.Name),
			Size:    int64(e.Size),
			IsDir:   e.Type == ftp.EntryTypeFolder,
			ModTime: e.Time,
		})
	}
	sortRemoteFiles(files)
	return files, nil
}

func (s *ftpSession) Size(_ context.Context, path string) (int64, error) {
	size, err := s.conn.FileSize(path)
	if err != nil {
		// Not every server implements SIZE; an unknown total is not an
		// error, the transfer simply reports indeterminate progress.
		return models.SizeUnknown, nil
	}
	return size, nil
}

func (s *ftpSession) Upload(ctx context.Context, localPath, remotePath string, offset int64, progress func(int64)) error {
	f, err := os.Open(localPath)
	if err != nil {
		return classify(err)
	}
	defer f.Close()

	if offset > 0 {
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			return classify(err)
		}
	}

	reader := newProgressReader(ctx, f, offset, progress)
	if err := s.conn.StorFrom(remotePath, reader, uint64(offset)); err != nil {
		return classify(err)
	}
	return nil
}

func (s *ftpSession) Download(ctx context.Context, remotePath, localPath string, offset int64, progress func(int64)) error {
	resp, err := s.conn.RetrFrom(remotePath, uint64(offset))
	if err != nil {
		return classify(err)
	}
	defer resp.Close()

	f, err := openLocalForWrite(localPath, offset)
	if err != nil {
		return err
	}

	writer := newProgressWriter(ctx, f, offset, progress)
	if _, err := io.Copy(writer, resp); err != nil {
		_ = f.Close()
		return classify(err)
	}
	if err := f.Close(); err != nil {
		return classify(err)
	}
	return nil
}

func (s *ftpSession) Delete(_ context.Context, path string) error {
	if err := s.conn.Delete(path); err != nil {
		return classify(err)
	}
	return nil
}

func (s *ftpSession) Mkdir(_ context.Context, path string) error {
	if err := s.conn.MakeDir(path); err != nil {
		return classify(err)
	}
	return nil
}

func (s *ftpSession) RemoveDir(_ context.Context, path string) error {
	if err := s.conn.RemoveDir(path); err != nil {
		return classify(err)
	}
	return nil
}

func (s *ftpSession) Rename(_ context.Context, oldPath, newPath string) error {
	if err := s.conn.Rename(oldPath, newPath); err != nil {
		return classify(err)
	}
	return nil
}

func (s *ftpSession) Alive(_ context.Context) bool {
	return s.conn.NoOp() == nil
}

func (s *ftpSession) Close() error {
	return s.conn.Quit()
}

// openLocalForWrite prepares the local target of a download. A resumed
// transfer truncates to the offset first so a previously torn tail never
// survives into the finished file.
func openLocalForWrite(path string, offset int64) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, classify(err)
	}
	if err := f.Truncate(offset); err != nil {
		_ = f.Close()
		return nil, classify(err)
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, classify(err)
	}
	return f, nil
}

// sortRemoteFiles orders listings directories first, then by name, so both
// adapters present the same view regardless of server ordering.
func sortRemoteFiles(files []models.RemoteFile) {
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].IsDir != files[j].IsDir {
			return files[i].IsDir
		}
		return files[i].Name < files[j].Name
	})
}

func joinRemote(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	if dir[len(dir)-1] == '/' {
		return dir + name
	}
	return fmt.Sprintf("%s/%s", dir, name)
}
