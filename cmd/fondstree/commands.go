package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"fondstree/internal/config"
	"fondstree/internal/generator"
	"fondstree/internal/graph"
	"fondstree/internal/pipeline"
	"fondstree/internal/retrieval"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	treeRoots []string
	treeDepth int
	treeOut   string
)

func init() {
	treeCmd.Flags().StringSliceVarP(&treeRoots, "root", "r", nil, "Canonical identifier of a subtree to print (repeatable)")
	treeCmd.Flags().IntVar(&treeDepth, "depth", 0, "Maximum levels below each root (0 = unlimited)")
	treeCmd.Flags().StringVarP(&treeOut, "out", "o", "", "Write the tree to a file instead of stdout")
}

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Scan a records directory and snapshot it into the catalog",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if len(args) > 0 {
			cfg.Records.Dir = args[0]
		}

		fmt.Printf("📂 Scanning records: %s\n", cfg.Records.Dir)
		start := time.Now()
		n, err := pipeline.New(cfg).Sync(context.Background())
		if err != nil {
			log.Fatalf("Index failed: %v", err)
		}
		fmt.Printf("💾 Stored %d records in %s (%v)\n", n, cfg.Catalog.Path, time.Since(start))
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the archival tree as indented text",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		p := pipeline.New(cfg)
		b, err := p.Build(context.Background(), retrieval.Config{RootIDs: treeRoots, MaxDepth: treeDepth})
		if err != nil {
			log.Fatalf("Build failed: %v", err)
		}

		if treeOut != "" {
			if err := generator.SaveText(treeOut, b.Forest); err != nil {
				log.Fatalf("Failed to write tree: %v", err)
			}
			fmt.Printf("✅ Tree written to %s\n", treeOut)
			return
		}

		styled := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		if err := printTree(os.Stdout, b.Forest, styled); err != nil {
			log.Fatalf("Failed to print tree: %v", err)
		}
	},
}

var mirrorCmd = &cobra.Command{
	Use:   "mirror [base]",
	Short: "Write the tree as nested directories with node.yaml descriptors",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if len(args) > 0 {
			cfg.Output.Mirror = absPath(args[0])
		}
		renderOne(cfg, cfg.MirrorPath(), generator.RendererMirror)
	},
}

var htmlCmd = &cobra.Command{
	Use:   "html [output]",
	Short: "Write the tree as one HTML document linking to record files",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if len(args) > 0 {
			cfg.Output.HTML = absPath(args[0])
		}
		renderOne(cfg, cfg.HTMLPath(), generator.RendererHTML)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write every artifact and the run report",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		fmt.Println("🚀 Building archival tree...")
		start := time.Now()
		report, err := pipeline.New(cfg).Run(context.Background(), pipeline.Options{SaveReport: true})
		if report == nil {
			log.Fatalf("Build failed: %v", err)
		}

		fmt.Printf("📊 %d records, %d nodes (%d placeholders), %d skipped\n",
			report.Summary.Records, report.Summary.Nodes, report.Summary.Placeholders, report.Summary.Skipped)
		for _, a := range report.Artifacts {
			if a.Status == "ok" {
				fmt.Printf("  ✅ %-6s %s\n", a.Renderer, a.Path)
			} else {
				fmt.Printf("  ❌ %-6s %s\n", a.Renderer, a.Path)
			}
		}
		if err != nil {
			log.Fatalf("Render finished with errors in %v: %v", time.Since(start), err)
		}
		fmt.Printf("✨ Done in %v. Report: %s\n", time.Since(start), cfg.ReportPath())
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show node counts per type and skipped records",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		b, err := pipeline.New(cfg).Build(context.Background(), retrieval.Config{})
		if err != nil {
			log.Fatalf("Build failed: %v", err)
		}
		f := b.Forest

		fmt.Printf("Records:              %d\n", f.Records)
		fmt.Printf("Without canonical id: %d\n", f.WithoutCanonicalID)
		fmt.Printf("Nodes:                %d (%d roots, %d placeholders)\n", f.Len(), len(f.Roots), f.PlaceholderCount())
		fmt.Printf("Linked source files:  %d\n", b.Index.Len())

		fmt.Println("\nNodes by type:")
		counts := f.TypeCounts()
		for _, code := range sortedKeys(counts) {
			fmt.Printf("  %-5s %-20s %d\n", code, typeLabel(f, code), counts[code])
		}

		if len(f.Skipped) > 0 {
			fmt.Println("\nSkipped records:")
			reasons := f.SkipReasonCounts()
			for _, reason := range sortedKeys(reasons) {
				fmt.Printf("  %-22s %d\n", reason, reasons[reason])
			}
			for _, s := range f.Skipped {
				fmt.Printf("  - %v\n", s)
			}
		}
	},
}

func renderOne(cfg *config.Config, path, renderer string) {
	p := pipeline.New(cfg)
	ctx := context.Background()
	b, err := p.Build(ctx, retrieval.Config{})
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}
	if err := p.Render(ctx, b, []string{renderer}); err != nil {
		var artifactErr *generator.ArtifactError
		if errors.As(err, &artifactErr) {
			log.Fatalf("Failed to write %s: %v", artifactErr.Path, err)
		}
		log.Fatalf("Render failed: %v", err)
	}
	fmt.Printf("✅ %s written to %s\n", renderer, path)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// typeLabel finds the level name behind a type token. Explicit codes are
// their own label.
func typeLabel(f *graph.Forest, code string) string {
	for _, n := range f.Nodes {
		if n.Type.String() == code && !n.Type.IsExplicit() {
			return n.Type.Label()
		}
	}
	return code
}
