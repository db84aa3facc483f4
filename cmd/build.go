package cmd

import (
	"bytes"
	"errors"
	"time"

	"github.com/achilleasa/bvh/asset/mesh"
	"github.com/achilleasa/bvh/bvh"
	"github.com/urfave/cli"
)

// Map build related command flags to bvh builder options.
func buildOptions(ctx *cli.Context) []bvh.Option {
	opts := []bvh.Option{bvh.WithLogger(logger)}
	if ctx.IsSet("buckets") {
		opts = append(opts, bvh.WithBuckets(ctx.Int("buckets")))
	}
	if ctx.IsSet("parallel-threshold") {
		opts = append(opts, bvh.WithParallelThreshold(ctx.Int("parallel-threshold")))
	}
	return opts
}

// Load a mesh and index its triangles.
func loadTree(ctx *cli.Context) ([]mesh.Triangle, *bvh.Tree[mesh.Triangle], error) {
	if ctx.NArg() != 1 {
		return nil, nil, errors.New("missing obj file argument")
	}

	tris, err := mesh.ReadFile(ctx.Args().First())
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	tree := bvh.Build(tris, buildOptions(ctx)...)
	logger.Noticef("indexed %d triangles in %d ms", len(tris), time.Since(start).Nanoseconds()/1e6)

	return tris, tree, nil
}

// Build a bvh for a mesh and display its statistics.
func BuildTree(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	tris, tree, err := loadTree(ctx)
	if err != nil {
		logger.Error(err)
		return err
	}

	if ctx.Bool("validate") {
		if err = tree.Validate(tris); err != nil {
			logger.Error(err)
			return err
		}
		logger.Notice("tree passed validation")
	}

	logger.Noticef("tree information:\n%s", tree.Stats())

	if ctx.Bool("dump") {
		var buf bytes.Buffer
		if err = tree.Dump(&buf); err != nil {
			return err
		}
		logger.Noticef("tree structure:\n%s", buf.String())
	}

	return nil
}
