package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/passvault-io/passvault/internal/client/models"
	"github.com/passvault-io/passvault/internal/client/session"
)

// list fetches and decrypts the vault, printing one line per item. Items
// that fail to decrypt are reported but do not hide the rest.
func (a *App) list(ctx context.Context) error {
	entries, failures, err := a.vault.LoadAll(ctx)
	if err != nil {
		if errors.Is(err, session.ErrLocked) {
			fmt.Println("Vault is locked. Use 'unlock' first.")
			return err
		}
		log.Printf("Listing failed: %s", err.Error())
		return err
	}

	a.entries = entries

	if len(entries) == 0 {
		fmt.Println("Vault is empty")
	}
	for i, e := range entries {
		fmt.Printf("%3d. %s (%s)\n", i+1, e.Item.Title, e.Item.Username)
	}
	for _, f := range failures {
		log.Printf("Could not decrypt item %s: %s", f.RecordID, f.Err.Error())
	}
	return nil
}

// show prints every field of an item except the password, which is only
// ever placed on the clipboard.
func (a *App) show(ctx context.Context, args []string) error {
	e, err := a.entryByArg(args)
	if err != nil {
		return err
	}

	fmt.Printf("Title:    %s\n", e.Item.Title)
	fmt.Printf("Username: %s\n", e.Item.Username)
	fmt.Printf("URL:      %s\n", e.Item.URL)
	fmt.Printf("Notes:    %s\n", e.Item.Notes)
	fmt.Printf("Updated:  %s\n", e.UpdatedAt.Format("2006-01-02 15:04"))
	return nil
}

// add prompts for the item fields and stores a new encrypted record.
func (a *App) add(ctx context.Context) error {
	item, err := a.promptItem(&models.VaultItem{})
	if err != nil {
		return err
	}

	if _, err := a.vault.Save(ctx, item, ""); err != nil {
		if errors.Is(err, session.ErrLocked) {
			fmt.Println("Vault is locked. Use 'unlock' first.")
		} else {
			log.Printf("Saving failed: %s", err.Error())
		}
		return err
	}

	fmt.Println("Saved!")
	return nil
}

// edit re-prompts the fields of an existing item and replaces its envelope.
func (a *App) edit(ctx context.Context, args []string) error {
	e, err := a.entryByArg(args)
	if err != nil {
		return err
	}

	item, err := a.promptItem(e.Item)
	if err != nil {
		return err
	}

	if _, err := a.vault.Save(ctx, item, e.ID); err != nil {
		log.Printf("Saving failed: %s", err.Error())
		return err
	}

	fmt.Println("Saved!")
	return nil
}

// copyPassword puts the item's password on the clipboard. It is cleared
// automatically unless the user copies something else first.
func (a *App) copyPassword(ctx context.Context, args []string) error {
	e, err := a.entryByArg(args)
	if err != nil {
		return err
	}

	if err := a.clipboard.CopyWithExpiry("password", e.Item.Password, a.config.ClipboardTTL); err != nil {
		log.Printf("Clipboard copy failed: %s", err.Error())
		return err
	}

	fmt.Printf("Password copied. Clipboard clears in %s.\n", a.config.ClipboardTTL)
	return nil
}

// delete removes an item after confirmation.
func (a *App) delete(ctx context.Context, args []string) error {
	e, err := a.entryByArg(args)
	if err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete %q? (y/n)", e.Item.Title), os.Stdout)
	if err != nil {
		return err
	}
	if answer != "y" {
		fmt.Println("Canceled")
		return nil
	}

	if err := a.vault.Delete(ctx, e.ID); err != nil {
		log.Printf("Deleting failed: %s", err.Error())
		return err
	}

	fmt.Println("Deleted!")
	return nil
}

func (a *App) promptItem(current *models.VaultItem) (*models.VaultItem, error) {
	item := &models.VaultItem{}
	var err error

	if item.Title, err = GetTextWithDefault(a.reader, "Title", current.Title, os.Stdout); err != nil {
		return nil, err
	}
	if item.Username, err = GetTextWithDefault(a.reader, "Username", current.Username, os.Stdout); err != nil {
		return nil, err
	}

	password, err := getPassword(os.Stdout, "Password (empty to keep)")
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		item.Password = current.Password
	} else {
		item.Password = string(password)
	}

	if item.URL, err = GetTextWithDefault(a.reader, "URL", current.URL, os.Stdout); err != nil {
		return nil, err
	}
	if item.Notes, err = GetTextWithDefault(a.reader, "Notes", current.Notes, os.Stdout); err != nil {
		return nil, err
	}

	return item, nil
}

// entryByArg resolves a 1-based item number from the last listing.
func (a *App) entryByArg(args []string) (*session.Entry, error) {
	if len(a.entries) == 0 {
		fmt.Println("Run 'list' first")
		return nil, errors.New("no listing")
	}
	if len(args) == 0 {
		fmt.Println("Usage: <command> <n>")
		return nil, errors.New("missing item number")
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(a.entries) {
		fmt.Printf("Item number must be between 1 and %d\n", len(a.entries))
		return nil, errors.New("bad item number")
	}
	return &a.entries[n-1], nil
}
