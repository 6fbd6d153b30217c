package main

import (
	"chat-channels/repositories"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

// Dumps the rows of a chat database, one line per key.
// Usage: go run ./cmd/inspect -db ./data -prefix msg:general:
func main() {
	dbPath := flag.String("db", "./data", "Path to badger DB")
	prefix := flag.String("prefix", "", "Prefix to scan, empty scans everything")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Owner", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			err := item.Value(func(v []byte) error {
				row, err := describe(key, v)
				if err != nil {
					fmt.Printf("Error decoding key %s: %v\n", key, err)
					return nil
				}
				table.Append(append([]string{key}, row...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

// describe returns the Type, Timestamp, Owner and Detail columns of a row.
func describe(key string, value []byte) ([]string, error) {
	switch {
	case strings.HasPrefix(key, "channel:"):
		var c repositories.DiskChannel
		if err := json.Unmarshal(value, &c); err != nil {
			return nil, err
		}
		return []string{"CHANNEL", c.CreatedAt.Format("2006-01-02 15:04:05"), short(c.CreatedBy), c.Kind + " " + c.Name}, nil
	case strings.HasPrefix(key, "msg:"):
		var m repositories.DiskMessage
		if err := json.Unmarshal(value, &m); err != nil {
			return nil, err
		}
		return []string{"MESSAGE", m.CreatedAt.Format("15:04:05.000"), short(m.UserID), truncate(m.Content, 60)}, nil
	case strings.HasPrefix(key, "msgid:"):
		return []string{"INDEX", "", "", string(value)}, nil
	case strings.HasPrefix(key, "member:"):
		return []string{"MEMBER", "", "", ""}, nil
	case strings.HasPrefix(key, "dm:"):
		return []string{"DIRECT", "", "", string(value)}, nil
	case strings.HasPrefix(key, "profile:"):
		var p repositories.DiskProfile
		if err := json.Unmarshal(value, &p); err != nil {
			return nil, err
		}
		return []string{"PROFILE", "", short(p.ID), p.DisplayName}, nil
	case strings.HasPrefix(key, "account:"):
		var a repositories.Account
		if err := json.Unmarshal(value, &a); err != nil {
			return nil, err
		}
		// Never print the password hash
		return []string{"ACCOUNT", a.CreatedAt.Format("2006-01-02 15:04:05"), short(a.ID), a.Email}, nil
	default:
		return []string{"UNKNOWN", "", "", fmt.Sprintf("%d bytes", len(value))}, nil
	}
}

// short keeps the first 8 characters of an id for readability.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		// A crashed writer leaves a value log that must be truncated first
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}
			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
