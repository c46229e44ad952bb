// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/MKhiriev/go-ftp-keeper/models"
)

// parseProfileSpec turns a URL-shaped profile description into a profile
// skeleton: protocol, user, host, optional port and start path. Credentials
// are never part of the spec; they are prompted separately so secrets stay
// out of shell history.
//
//	sftp://alice@nas.local:22/home/alice
//	ftp://deploy@ftp.example.com
//	ftps://deploy@ftp.example.com/www
func parseProfileSpec(name, spec string) (models.ConnectionProfile, error) {
	u, err := url.Parse(spec)
	if err != nil {
		return models.ConnectionProfile{}, fmt.Errorf("parse profile spec: %w", err)
	}

	protocol, err := models.ParseProtocol(u.Scheme)
	if err != nil {
		return models.ConnectionProfile{}, err
	}

	if u.User == nil || u.User.Username() == "" {
		return models.ConnectionProfile{}, errors.New("profile spec must include a username, e.g. sftp://alice@host")
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		return models.ConnectionProfile{}, errors.New("do not put the password in the spec; it is prompted separately")
	}
	if u.Hostname() == "" {
		return models.ConnectionProfile{}, errors.New("profile spec must include a host")
	}

	port := protocol.DefaultPort()
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return models.ConnectionProfile{}, fmt.Errorf("invalid port %q", p)
		}
	}

	return models.ConnectionProfile{
		Name:      name,
		Protocol:  protocol,
		Host:      u.Hostname(),
		Port:      port,
		Username:  u.User.Username(),
		StartPath: u.Path,
	}, nil
}
