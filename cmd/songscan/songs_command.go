package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"songscan/internal/catalog"
	"songscan/internal/config"
	"songscan/internal/store"
)

func newSongsCommand(ctx *commandContext) *cobra.Command {
	songsCmd := &cobra.Command{
		Use:   "songs",
		Short: "Manage the match-target song catalog",
	}

	songsCmd.AddCommand(newSongsAddCommand(ctx))
	songsCmd.AddCommand(newSongsListCommand(ctx))

	return songsCmd
}

func newSongsAddCommand(ctx *commandContext) *cobra.Command {
	var artist string
	var lyrics string
	var language string
	var metadata []string

	cmd := &cobra.Command{
		Use:   "add <id> <title>",
		Short: "Add or replace a catalog song",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				song := catalog.Song{
					ID:             strings.TrimSpace(args[0]),
					Title:          strings.TrimSpace(args[1]),
					OriginalArtist: artist,
					LyricsText:     lyrics,
					Language:       language,
				}
				if len(metadata) > 0 {
					song.Metadata = make(map[string]string, len(metadata))
					for _, pair := range metadata {
						key, value, found := strings.Cut(pair, "=")
						if !found {
							return fmt.Errorf("metadata %q is not key=value", pair)
						}
						song.Metadata[key] = value
					}
				}

				if err := st.AddSong(cmd.Context(), song); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added song %s\n", song.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&artist, "artist", "", "Original artist")
	cmd.Flags().StringVar(&lyrics, "lyrics", "", "Lyrics text used for matching")
	cmd.Flags().StringVar(&language, "language", "", "Language tag (e.g. ko, en-US)")
	cmd.Flags().StringArrayVar(&metadata, "meta", nil, "Extra metadata as key=value (repeatable)")
	return cmd
}

func newSongsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog songs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				songs, err := st.ListSongs(cmd.Context())
				if err != nil {
					return err
				}
				if len(songs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty")
					return nil
				}

				rows := make([][]string, 0, len(songs))
				for _, song := range songs {
					rows = append(rows, []string{
						song.ID,
						song.Title,
						song.OriginalArtist,
						song.Language,
					})
				}
				headers := []string{"ID", "Title", "Artist", "Language"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
				return nil
			})
		},
	}
}
