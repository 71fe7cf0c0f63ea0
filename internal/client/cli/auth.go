package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/passvault-io/passvault/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and password and creates a new account. The
// account password doubles as the vault master password, so a successful
// registration also unlocks the session.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.auth.Register(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			log.Println("An account with this email already exists")
			return err
		}
		log.Printf("Registration failed: %s", err.Error())
		return err
	}

	a.auth.SetToken(res.Token)
	a.vault.Unlock(password)
	a.userEmail = res.User.Email

	fmt.Println("Success!")
	return nil
}

// Login prompts for credentials and authenticates. On success the password
// unlocks the vault session before being wiped.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			log.Println("Invalid email or password")
		} else {
			log.Printf("Login failed: %s", err.Error())
		}
		return err
	}

	a.auth.SetToken(res.Token)
	a.vault.Unlock(password)
	a.userEmail = res.User.Email

	log.Println("Login successful")
	return nil
}

// LockVault wipes the master password from memory. The bearer token stays
// valid, so unlock does not require another round trip.
func (a *App) LockVault() {
	a.vault.Lock()
	a.entries = nil
	fmt.Println("Vault locked")
}

// UnlockVault re-reads the master password and unlocks the session.
func (a *App) UnlockVault() error {
	password, err := getPassword(os.Stdout, "Enter master password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	a.vault.Unlock(password)
	fmt.Println("Vault unlocked")
	return nil
}
