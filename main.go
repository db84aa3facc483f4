package main

import (
	"os"

	"github.com/achilleasa/bvh/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	buildFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "buckets",
			Value: 6,
			Usage: "number of SAH buckets used when evaluating splits",
		},
		cli.IntFlag{
			Name:  "parallel-threshold",
			Value: 256,
			Usage: "build subtrees with at least this many triangles in parallel; 0 disables parallel builds",
		},
	}

	app := cli.NewApp()
	app.Name = "bvh"
	app.Usage = "build and query bounding volume hierarchies for triangle meshes"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "build",
			Usage: "build a BVH for a wavefront obj mesh and display tree statistics",
			Description: `
Parse the triangles of a wavefront obj file, partition them into a BVH using
the surface area heuristic and print statistics about the generated tree.`,
			ArgsUsage: "mesh.obj",
			Flags: append([]cli.Flag{
				cli.BoolFlag{
					Name:  "validate",
					Usage: "check the tree invariants after building it",
				},
				cli.BoolFlag{
					Name:  "dump",
					Usage: "print the tree structure",
				},
			}, buildFlags...),
			Action: cmd.BuildTree,
		},
		{
			Name:  "query",
			Usage: "cast a ray against a wavefront obj mesh",
			Description: `
Index the triangles of a wavefront obj file, collect the triangles whose
bounding boxes are hit by the ray and report the closest intersection.`,
			ArgsUsage: "mesh.obj",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "origin",
					Value: "0,0,0",
					Usage: "ray origin as x,y,z",
				},
				cli.StringFlag{
					Name:  "dir",
					Value: "0,0,-1",
					Usage: "ray direction as x,y,z",
				},
			}, buildFlags...),
			Action: cmd.QueryTree,
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
