package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/spotify-explorer/internal/store"
)

var cachePrune string
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Lists or prunes the classification cache",
	Long: `Lists the snapshots stored in the --cache database. With --prune, first deletes
snapshots not used since the given date, e.g. '2024-01-01' or '30d'.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCache(cmd.OutOrStdout(), viper.GetString("cache"), cachePrune); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.Flags().StringVar(&cachePrune, "prune", "", "delete snapshots last used before this date")
}

func runCache(out io.Writer, dbPath string, prune string) error {
	if dbPath == "" {
		return fmt.Errorf("no cache configured, set --cache")
	}
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer db.Close()

	if prune != "" {
		before, err := parseSingleDatestring(prune)
		if err != nil {
			return fmt.Errorf("invalid prune date: %w", err)
		}
		n, err := db.Prune(before.Date)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Pruned %d snapshots\n", n)
	}

	snapshots, err := db.Snapshots()
	if err != nil {
		return err
	}
	results := [][]string{{"Snapshot", "Artists", "Created", "Last used"}}
	for _, s := range snapshots {
		lastUsed := ""
		if !s.LastUsed.IsZero() {
			lastUsed = s.LastUsed.Format("2006-01-02 15:04")
		}
		results = append(results, []string{
			shortKey(s.Key), strconv.Itoa(s.Artists), s.Created.Format("2006-01-02 15:04"), lastUsed})
	}
	if err := renderTable(out, results); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d snapshots in %s\n", len(snapshots), dbPath)
	return nil
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
