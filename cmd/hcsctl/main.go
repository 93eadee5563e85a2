// Command hcsctl is thin glue over the hcs and colorio packages: sort
// an input batch by cardinality, run parent discovery, build and
// serialize an HCS, spot-check a single extract, or benchmark random
// extracts against a built file. None of these subcommands affect the
// in-memory semantics implemented by the hcs package itself.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/cdbg/hcs"
	"github.com/cdbg/hcs/colorio"
	"github.com/cdbg/hcs/internal/depthlimit"
	"github.com/cdbg/hcs/internal/packedvec"
	"github.com/cdbg/hcs/internal/parentfinder"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := &cli.App{
		Name:        "hcsctl",
		Description: "build and inspect Hierarchical Color-Set containers",
		Commands: []*cli.Command{
			sortCmd(),
			findParentsCmd(),
			buildCmd(),
			extractCmd(),
			benchCmd(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "hcsctl:", err)
		os.Exit(1)
	}
}

func sortCmd() *cli.Command {
	return &cli.Command{
		Name:      "sort",
		Usage:     "reorder a color-set file by ascending cardinality",
		ArgsUsage: "<in.sets> <out.sets> <out.perm>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 3 {
				return fmt.Errorf("sort: expected 3 arguments, got %d", c.Args().Len())
			}
			sets, err := readSets(c.Args().Get(0))
			if err != nil {
				return err
			}

			sorted, perm := colorio.Sort(sets)

			if err := writeSets(c.Args().Get(1), sorted); err != nil {
				return err
			}
			if err := writeParents(c.Args().Get(2), perm); err != nil {
				return err
			}

			fmt.Printf("sorted %s sets\n", humanize.Comma(int64(len(sets))))
			return nil
		},
	}
}

func findParentsCmd() *cli.Command {
	var workers int
	return &cli.Command{
		Name:      "find-parents",
		Usage:     "discover a candidate ancestor for each set in a sorted color-set file",
		ArgsUsage: "<in.sets> <out.parents>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Destination: &workers, Usage: "goroutines to use; 0 means GOMAXPROCS"},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("find-parents: expected 2 arguments, got %d", c.Args().Len())
			}
			sets, err := readSets(c.Args().Get(0))
			if err != nil {
				return err
			}

			raw := toRaw(sets)
			ts := time.Now()
			ancestor, err := parentfinder.Find(c.Context, raw, workers)
			if err != nil {
				return err
			}
			fmt.Printf("found parents for %s sets in %v\n", humanize.Comma(int64(len(sets))), time.Since(ts))

			return writeParents(c.Args().Get(1), ancestor)
		},
	}
}

func buildCmd() *cli.Command {
	var depthLimit int
	return &cli.Command{
		Name:      "build",
		Usage:     "apply the depth limiter and assemble+serialize an HCS",
		ArgsUsage: "<in.sets> <in.parents> <out.hcs>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "depth-limit", Value: 4, Destination: &depthLimit, Usage: "maximum subset chain length"},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 3 {
				return fmt.Errorf("build: expected 3 arguments, got %d", c.Args().Len())
			}
			sets, err := readSets(c.Args().Get(0))
			if err != nil {
				return err
			}
			ancestor, err := readParents(c.Args().Get(1))
			if err != nil {
				return err
			}
			if len(ancestor) != len(sets) {
				return fmt.Errorf("build: %d sets but %d ancestor entries", len(sets), len(ancestor))
			}

			depthlimit.Limit(ancestor, depthLimit)

			raw := toRaw(sets)
			var maxElem uint32
			for _, s := range sets {
				if len(s) > 0 && s[len(s)-1] > maxElem {
					maxElem = s[len(s)-1]
				}
			}
			encWidth := packedvec.BitsFor(uint64(maxElem))

			container, _, stats, err := hcs.Build(raw, ancestor, encWidth)
			if err != nil {
				return err
			}

			f, err := os.Create(c.Args().Get(2))
			if err != nil {
				return err
			}
			defer f.Close()
			if err := container.Serialize(f); err != nil {
				return err
			}

			reportStats(stats)
			return nil
		},
	}
}

func extractCmd() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "decode a single set from a built HCS file",
		ArgsUsage: "<in.hcs> <index>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("extract: expected 2 arguments, got %d", c.Args().Len())
			}
			container, err := loadHCS(c.Args().Get(0))
			if err != nil {
				return err
			}

			var idx int
			if _, err := fmt.Sscanf(c.Args().Get(1), "%d", &idx); err != nil {
				return fmt.Errorf("extract: bad index %q: %w", c.Args().Get(1), err)
			}

			fmt.Println(container.Extract(idx))
			return nil
		},
	}
}

func benchCmd() *cli.Command {
	var n int
	return &cli.Command{
		Name:      "bench",
		Usage:     "repeatedly extract random indices from a built HCS file",
		ArgsUsage: "<in.hcs>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "n", Value: 100_000, Destination: &n, Usage: "number of extracts to run"},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("bench: expected 1 argument, got %d", c.Args().Len())
			}
			container, err := loadHCS(c.Args().Get(0))
			if err != nil {
				return err
			}

			size := container.Size()
			if size == 0 {
				return fmt.Errorf("bench: empty HCS")
			}

			prng := rand.New(rand.NewPCG(1, 1))
			var memBefore, memAfter runtime.MemStats
			runtime.ReadMemStats(&memBefore)

			ts := time.Now()
			var buf []uint32
			for i := 0; i < n; i++ {
				idx := int(prng.Int64N(int64(size)))
				buf = container.ExtractPooled(buf[:0], idx)
			}
			elapsed := time.Since(ts)

			runtime.ReadMemStats(&memAfter)

			live, total := container.ScratchStats()
			fmt.Printf("%s extracts in %v (%d ns/op)\n", humanize.Comma(int64(n)), elapsed, elapsed.Nanoseconds()/int64(n))
			fmt.Printf("heap growth: %s\n", humanize.Bytes(memAfter.HeapAlloc-memBefore.HeapAlloc))
			fmt.Printf("scratch buffers: %d live, %d allocated total\n", live, total)
			return nil
		},
	}
}

func reportStats(s hcs.Stats) {
	fmt.Printf("sets: %s (dense %s, sparse %s, subset %s)\n",
		humanize.Comma(int64(s.Sets)), humanize.Comma(int64(s.DenseCount)),
		humanize.Comma(int64(s.SparseCount)), humanize.Comma(int64(s.SubsetCount)))
	fmt.Printf("bytes: dense %s, sparse %s, subset %s, starts %s, parent %s\n",
		humanize.Bytes(uint64(s.DenseBytes)), humanize.Bytes(uint64(s.SparseBytes)),
		humanize.Bytes(uint64(s.SubsetBytes)), humanize.Bytes(uint64(s.StartsBytes)),
		humanize.Bytes(uint64(s.ParentBytes)))
	fmt.Printf("chain depth: max %d, mean %.2f\n", s.MaxChainLen, s.MeanChainLen)
}

func readSets(path string) ([]hcs.ColorSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return colorio.DecodeSets(f)
}

func writeSets(path string, sets []hcs.ColorSet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return colorio.EncodeSets(f, sets)
}

func readParents(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return colorio.DecodeParents(f)
}

func writeParents(path string, ancestor []int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return colorio.EncodeParents(f, ancestor)
}

func loadHCS(path string) (*hcs.HCS, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return hcs.Load(f)
}

func toRaw(sets []hcs.ColorSet) [][]uint32 {
	raw := make([][]uint32, len(sets))
	for i, s := range sets {
		raw[i] = []uint32(s)
	}
	return raw
}
