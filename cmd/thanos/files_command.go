package main

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"thanos/internal/catalog"
	"thanos/internal/config"
	"thanos/internal/naming"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Copy local files into the upload directory and track them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				out := cmd.OutOrStdout()
				for _, arg := range args {
					record, err := addLocalFile(cmd, cfg, store, arg)
					if err != nil {
						return fmt.Errorf("add %s: %w", arg, err)
					}
					fmt.Fprintf(out, "Added %s (%s)\n", record.CurrentName, record.ID)
				}
				return nil
			})
		},
	}
}

func addLocalFile(cmd *cobra.Command, cfg *config.Config, store *catalog.Store, path string) (*catalog.FileRecord, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", expanded)
	}

	name := naming.SafeName(filepath.Base(expanded))
	dest, err := naming.EnsureUnique(filepath.Join(cfg.Paths.UploadDir, name))
	if err != nil {
		return nil, err
	}
	if err := copyInto(expanded, dest); err != nil {
		return nil, err
	}

	stored := filepath.Base(dest)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(stored)), ".")
	mimeType := "application/octet-stream"
	if byExt := mime.TypeByExtension(filepath.Ext(stored)); byExt != "" {
		if base, _, parseErr := mime.ParseMediaType(byExt); parseErr == nil {
			mimeType = base
		}
	}

	record := &catalog.FileRecord{
		OriginalName: stored,
		CurrentName:  stored,
		OriginalPath: dest,
		CurrentPath:  dest,
		FileType:     ext,
		MimeType:     mimeType,
		FileSize:     info.Size(),
	}
	if err := store.CreateFile(cmd.Context(), record); err != nil {
		os.Remove(dest)
		return nil, err
	}
	return record, nil
}

func copyInto(source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}

func newFilesCommand(ctx *commandContext) *cobra.Command {
	var unorganizedOnly bool
	var organizedOnly bool

	cmd := &cobra.Command{
		Use:   "files",
		Short: "List tracked files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				var filter catalog.FileFilter
				switch {
				case unorganizedOnly && organizedOnly:
					return fmt.Errorf("--organized and --unorganized are mutually exclusive")
				case unorganizedOnly:
					organized := false
					filter.Organized = &organized
				case organizedOnly:
					organized := true
					filter.Organized = &organized
				}

				records, err := store.ListFiles(cmd.Context(), filter)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No files tracked")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						rec.ID,
						rec.CurrentName,
						rec.Category,
						formatBytes(rec.FileSize),
						yesNo(rec.Organized()),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Category", "Size", "Organized"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&unorganizedOnly, "unorganized", false, "Show only files awaiting organization")
	cmd.Flags().BoolVar(&organizedOnly, "organized", false, "Show only organized files")
	return cmd
}
