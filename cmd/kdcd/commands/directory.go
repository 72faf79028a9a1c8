package commands

import (
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dirsrv/kdc/internal/cli/output"
	"github.com/dirsrv/kdc/pkg/badgerindex"
	"github.com/dirsrv/kdc/pkg/config"
	"github.com/dirsrv/kdc/pkg/cursor"
)

var directoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Inspect the directory children index",
}

var directoryListCmd = &cobra.Command{
	Use:   "list <parent-id>",
	Short: "List the one-level children of a directory entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runDirectoryList,
}

func init() {
	directoryCmd.AddCommand(directoryListCmd)
}

func runDirectoryList(cmd *cobra.Command, args []string) error {
	parentID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid parent id %q: %w", args[0], err)
	}

	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	db, err := badger.Open(badger.DefaultOptions(cfg.Directory.BadgerPath).WithLoggingLevel(badger.ERROR).WithReadOnly(true))
	if err != nil {
		return fmt.Errorf("failed to open directory index: %w", err)
	}
	defer db.Close()

	idx := badgerindex.Open(db)
	underlying, err := idx.SeekChildren(parentID)
	if err != nil {
		return fmt.Errorf("failed to seek children of %s: %w", parentID, err)
	}

	children := cursor.New(underlying, parentID)
	defer children.Close(nil)

	table := output.NewTableData("RDN", "ENTRY ID")

	for ok, err := children.First(); ; ok, err = children.Next() {
		if err != nil {
			return fmt.Errorf("failed to advance cursor: %w", err)
		}
		if !ok {
			break
		}
		entry, err := children.Get()
		if err != nil {
			return fmt.Errorf("failed to read cursor entry: %w", err)
		}
		table.AddRow(entry.Key.Rdn, entry.ID.String())
	}

	return output.PrintTable(os.Stdout, table)
}
