// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/MKhiriev/go-ftp-keeper/internal/logger"
	"github.com/MKhiriev/go-ftp-keeper/models"
)

// sftpSession adapts an SFTP subsystem channel to the Session interface.
// One SSH connection carries one sftp client; the pool multiplies
// connections instead of channels to keep failure isolation simple.
type sftpSession struct {
	ssh    *ssh.Client
	client *sftp.Client
	log    *logger.Logger
}

func dialSFTP(ctx context.Context, profile models.ConnectionProfile, connectTimeout time.Duration, log *logger.Logger) (Session, error) {
	auth, err := sshAuthMethods(profile.Credential)
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User: profile.Username,
		Auth: auth,
		// Host keys are accepted blindly. Known-hosts pinning is not
		// implemented; profiles carry no host key material yet.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         connectTimeout,
	}

	dialer := net.Dialer{Timeout: connectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", profile.Address())
	if err != nil {
		return nil, classify(err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, profile.Address(), cfg)
	if err != nil {
		_ = conn.Close()
		return nil, classify(err)
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, classify(err)
	}

	s := &sftpSession{ssh: sshClient, client: client, log: log}

	if profile.StartPath != "" {
		if _, err := client.Stat(profile.StartPath); err != nil {
			_ = s.Close()
			return nil, classify(err)
		}
	}

	log.Debug().
		Str("profile_id", profile.ID.String()).
		Str("address", profile.Address()).
		Msg("sftp session established")

	return s, nil
}

// sshAuthMethods builds the SSH authentication chain for a credential:
// either the stored password or a private key file, optionally protected by
// the stored secret as passphrase.
func sshAuthMethods(cred models.Credential) ([]ssh.AuthMethod, error) {
	switch cred.Kind {
	case models.CredentialPassword:
		return []ssh.AuthMethod{ssh.Password(cred.Secret)}, nil

	case models.CredentialKeyFile:
		pem, err := os.ReadFile(cred.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read key file: %v", ErrLocalIO, err)
		}

		var signer ssh.Signer
		if cred.Secret != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(pem, []byte(cred.Secret))
		} else {
			signer, err = ssh.ParsePrivateKey(pem)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parse private key: %v", ErrAuthentication, err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil

	default:
		return nil, fmt.Errorf("%w: unknown credential kind %d", ErrAuthentication, cred.Kind)
	}
}

func (s *sftpSession) List(_ context.Context, path string) ([]models.RemoteFile, error) {
	entries, err := s.client.ReadDir(path)
	if err != nil {
		return nil, classify(err)
	}

	files := make([]models.RemoteFile, 0, len(entries))
	for _, e := range entries {
		files = append(files, models.RemoteFile{
			Name:    e.Name(),
			Path:    joinRemote(path, e.Name()),
			Size:    e.Size(),
			IsDir:   e.IsDir(),
			ModTime: e.ModTime(),
		})
	}
	sortRemoteFiles(files)
	return files, nil
}

func (s *sftpSession) Size(_ context.Context, path string) (int64, error) {
	info, err := s.client.Stat(path)
	if err != nil {
		return 0, classify(err)
	}
	return info.Size(), nil
}

func (s *sftpSession) Upload(ctx context.Context, localPath, remotePath string, offset int64, progress func(int64)) error {
	local, err := os.Open(localPath)
	if err != nil {
		return classify(err)
	}
	defer local.Close()

	if offset > 0 {
		if _, err := local.Seek(offset, io.SeekStart); err != nil {
			return classify(err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE
	if offset == 0 {
		flags |= os.O_TRUNC
	}
	remote, err := s.client.OpenFile(remotePath, flags)
	if err != nil {
		return classify(err)
	}
	if offset > 0 {
		if _, err := remote.Seek(offset, io.SeekStart); err != nil {
			_ = remote.Close()
			return classify(err)
		}
	}

	reader := newProgressReader(ctx, local, offset, progress)
	if _, err := io.Copy(remote, reader); err != nil {
		_ = remote.Close()
		return classify(err)
	}
	if err := remote.Close(); err != nil {
		return classify(err)
	}
	return nil
}

func (s *sftpSession) Download(ctx context.Context, remotePath, localPath string, offset int64, progress func(int64)) error {
	remote, err := s.client.Open(remotePath)
	if err != nil {
		return classify(err)
	}
	defer remote.Close()

	if offset > 0 {
		if _, err := remote.Seek(offset, io.SeekStart); err != nil {
			return classify(err)
		}
	}

	local, err := openLocalForWrite(localPath, offset)
	if err != nil {
		return err
	}

	writer := newProgressWriter(ctx, local, offset, progress)
	if _, err := io.Copy(writer, remote); err != nil {
		_ = local.Close()
		return classify(err)
	}
	if err := local.Close(); err != nil {
		return classify(err)
	}
	return nil
}

func (s *sftpSession) Delete(_ context.Context, path string) error {
	if err := s.client.Remove(path); err != nil {
		return classify(err)
	}
	return nil
}

func (s *sftpSession) Mkdir(_ context.Context, path string) error {
	if err := s.client.Mkdir(path); err != nil {
		return classify(err)
	}
	return nil
}

func (s *sftpSession) RemoveDir(_ context.Context, path string) error {
	if err := s.client.RemoveDirectory(path); err != nil {
		return classify(err)
	}
	return nil
}

func (s *sftpSession) Rename(_ context.Context, oldPath, newPath string) error {
	if err := s.client.Rename(oldPath, newPath); err != nil {
		return classify(err)
	}
	return nil
}

func (s *sftpSession) Alive(_ context.Context) bool {
	_, err := s.client.Getwd()
	return err == nil
}

func (s *sftpSession) Close() error {
	clientErr := s.client.Close()
	sshErr := s.ssh.Close()
	if clientErr != nil {
		return clientErr
	}
	return sshErr
}
