// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"
	"text/tabwriter"

	"github.com/atotto/clipboard"

	"github.com/MKhiriev/go-ftp-keeper/internal/vault"
	"github.com/MKhiriev/go-ftp-keeper/models"
)

func (a *App) cmdInit() error {
	password, err := a.readNewPassword("New master password: ")
	if err != nil {
		return err
	}
	defer wipe(password)

	handle, err := a.store.Create(a.cfg.Vault.Path, password)
	if err != nil {
		return err
	}
	handle.Lock()

	fmt.Fprintf(a.stdout, "Vault created at %s\n", a.cfg.Vault.Path)
	return nil
}

func (a *App) cmdList(handle *vault.Handle) error {
	profiles, err := handle.Profiles()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Fprintln(a.stdout, "No profiles. Add one with: ftpkeeper add <name> <url>")
		return nil
	}

	w := tabwriter.NewWriter(a.stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPROTOCOL\tADDRESS\tUSER\tAUTH\tLAST USED")
	for _, p := range profiles {
		auth := "password"
		if p.Credential.Kind == models.CredentialKeyFile {
			auth = "key file"
		}
		lastUsed := "never"
		if !p.LastUsedAt.IsZero() {
			lastUsed = p.LastUsedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Name, p.Protocol, p.Address(), p.Username, auth, lastUsed)
	}
	return w.Flush()
}

func (a *App) cmdAdd(handle *vault.Handle, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: add <name> <url>")
	}

	profile, err := parseProfileSpec(args[0], args[1])
	if err != nil {
		return err
	}

	if _, err := handle.ProfileByName(profile.Name); err == nil {
		return fmt.Errorf("profile %q already exists", profile.Name)
	}

	keyFile, err := a.promptLine("Key file path (leave empty for password auth): ")
	if err != nil {
		return err
	}

	if keyFile == "" {
		secret, err := a.readPassword(fmt.Sprintf("Password for %s@%s: ", profile.Username, profile.Host))
		if err != nil {
			return err
		}
		profile.Credential = models.Credential{
			Kind:   models.CredentialPassword,
			Secret: string(secret),
		}
		wipe(secret)
	} else {
		passphrase, err := a.readPassword("Key passphrase (leave empty if none): ")
		if err != nil {
			return err
		}
		profile.Credential = models.Credential{
			Kind:    models.CredentialKeyFile,
			KeyFile: keyFile,
			Secret:  string(passphrase),
		}
		wipe(passphrase)
	}

	stored, err := handle.Add(profile)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Profile %q added (%s %s)\n", stored.Name, stored.Protocol, stored.Address())
	return nil
}

func (a *App) cmdRemove(handle *vault.Handle, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rm <name>")
	}

	profile, err := handle.ProfileByName(args[0])
	if err != nil {
		return err
	}
	if err := handle.Remove(profile.ID); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Profile %q removed\n", profile.Name)
	return nil
}

func (a *App) cmdCopy(handle *vault.Handle, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: copy <name>")
	}

	profile, err := handle.ProfileByName(args[0])
	if err != nil {
		return err
	}
	if profile.Credential.Kind != models.CredentialPassword {
		return fmt.Errorf("profile %q authenticates with a key file, nothing to copy", profile.Name)
	}

	if err := clipboard.WriteAll(profile.Credential.Secret); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}

	fmt.Fprintf(a.stdout, "Password for %q copied to clipboard\n", profile.Name)
	return nil
}

func (a *App) cmdChangePassword(handle *vault.Handle) error {
	password, err := a.readNewPassword("New master password: ")
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := handle.ChangeMasterPassword(password); err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, "Master password changed")
	return nil
}

func (a *App) promptLine(prompt string) (string, error) {
	fmt.Fprint(a.stdout, prompt)
	return a.readLine()
}
