package main

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/geange/fsa"
)

func main() {
	var input string
	var output string
	var sortInput bool

	rootCmd := &cobra.Command{
		Use:   "fsabuild",
		Short: "Compile a list of byte sequences into a minimal constant-arc automaton",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(input)
			if err != nil {
				return err
			}

			sequences := splitLines(data)
			if sortInput {
				sort.Slice(sequences, func(i, j int) bool {
					return bytes.Compare(sequences[i], sequences[j]) < 0
				})
			}

			builder := fsa.NewBuilder()
			for _, sequence := range sequences {
				if err := builder.Add(sequence); err != nil {
					return fmt.Errorf("line %q: %w (use --sort for unsorted input)", sequence, err)
				}
			}
			automaton, err := builder.Complete()
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, automaton.Bytes(), 0o644); err != nil {
					return err
				}
				fmt.Printf("Written %s to %s (entry offset %d)\n",
					humanize.IBytes(uint64(len(automaton.Bytes()))), output, automaton.Entry())
			}

			fmt.Printf("Input sequences: %d\n", len(sequences))
			fmt.Printf("Nodes: %d\n", automaton.StateCount())
			fmt.Printf("Arcs: %d\n", automaton.ArcCount())
			fmt.Println(builder.Info())
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&input, "input", "i", "", "newline-delimited input file (required)")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "write the serialized automaton image here")
	rootCmd.Flags().BoolVar(&sortInput, "sort", false, "sort input lines before building")
	_ = rootCmd.MarkFlagRequired("input")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// splitLines splits on '\n', dropping a trailing '\r' per line and a final
// empty line from a trailing newline.
func splitLines(data []byte) [][]byte {
	lines := bytes.Split(data, []byte{'\n'})
	out := make([][]byte, 0, len(lines))
	for i, line := range lines {
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) == 0 && i == len(lines)-1 {
			continue
		}
		out = append(out, line)
	}
	return out
}
