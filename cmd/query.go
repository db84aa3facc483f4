package cmd

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/achilleasa/bvh/asset/mesh"
	"github.com/achilleasa/bvh/bvh"
	"github.com/achilleasa/bvh/types"
	"github.com/urfave/cli"
)

// Cast a ray against an indexed mesh and report the candidate triangles
// and the closest hit.
func QueryTree(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	origin, err := parseVec3Flag(ctx.String("origin"))
	if err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}
	dir, err := parseVec3Flag(ctx.String("dir"))
	if err != nil {
		return fmt.Errorf("invalid dir: %w", err)
	}
	if dir.Len() == 0 {
		return fmt.Errorf("invalid dir: zero length vector")
	}

	tris, tree, err := loadTree(ctx)
	if err != nil {
		logger.Error(err)
		return err
	}

	ray := types.NewRay(origin, dir)
	candidates, err := queryCandidates(tree, tris, ray)
	if err != nil {
		logger.Error(err)
		return err
	}

	closest := -1
	var closestDist float32
	for _, index := range candidates {
		dist, hit := tris[index].Intersect(ray)
		if hit && (closest == -1 || dist < closestDist) {
			closest, closestDist = index, dist
		}
	}

	if closest == -1 {
		logger.Notice("ray does not hit any triangle")
		return nil
	}

	logger.Noticef("closest hit: triangle %d at distance %v (point %v)", closest, closestDist, ray.Point(closestDist))
	return nil
}

// Collect the candidates for ray using both the recursive and the flattened
// traversal. An error is returned if the two candidate sets differ.
func queryCandidates(tree *bvh.Tree[mesh.Triangle], tris []mesh.Triangle, ray types.Ray) ([]int, error) {
	recursive := tree.Traverse(ray, tris)
	flat := tree.Flatten().Traverse(ray)
	sort.Ints(recursive)
	sort.Ints(flat)

	logger.Noticef("%d candidate(s) (recursive): %v", len(recursive), recursive)
	logger.Noticef("%d candidate(s) (flat): %v", len(flat), flat)

	if !slices.Equal(recursive, flat) {
		return nil, fmt.Errorf("flat traversal returned %v; expected %v", flat, recursive)
	}
	return recursive, nil
}

// Parse a vector specified as "x,y,z".
func parseVec3Flag(value string) (types.Vec3, error) {
	tokens := strings.Split(value, ",")
	if len(tokens) != 3 {
		return types.Vec3{}, fmt.Errorf(`expected 3 comma separated components; got "%s"`, value)
	}

	v := types.Vec3{}
	for index, token := range tokens {
		coord, err := strconv.ParseFloat(strings.TrimSpace(token), 32)
		if err != nil {
			return v, err
		}
		v[index] = float32(coord)
	}
	return v, nil
}
