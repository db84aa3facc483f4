package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/bvh/asset"
	"github.com/achilleasa/bvh/log"
	"github.com/achilleasa/bvh/types"
)

// ErrUnsupportedFormat is returned when a mesh file cannot be handled by
// any of the available readers.
var ErrUnsupportedFormat = errors.New("mesh: unsupported file format")

// Read triangles from a wavefront obj file.
func ReadFile(filename string) ([]Triangle, error) {
	res, err := asset.Open(filename)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	if res.Ext() != ".obj" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, res.Path())
	}

	return ReadTriangles(res)
}

// Read triangles from a wavefront obj resource. Only geometry is parsed:
// vertex ("v") and face ("f") statements and "call" statements for
// including other obj files. Quad faces are split into two triangles.
// All other statements are ignored.
func ReadTriangles(res *asset.Resource) ([]Triangle, error) {
	r := &wavefrontReader{
		logger:     log.New("wavefront reader"),
		vertexList: make([]types.Vec3, 0),
		triangles:  make([]Triangle, 0),
		errStack:   make([]string, 0),
		skipped:    make(map[string]int),
	}

	r.logger.Noticef(`parsing mesh from "%s"`, res.Path())
	start := time.Now()

	if err := r.parse(res); err != nil {
		return nil, err
	}

	for statement, count := range r.skipped {
		r.logger.Debugf(`ignored %d "%s" statements`, count, statement)
	}
	r.logger.Noticef("parsed %d triangles in %d ms", len(r.triangles), time.Since(start).Nanoseconds()/1e6)

	return r.triangles, nil
}

type wavefrontReader struct {
	logger log.Logger

	vertexList []types.Vec3
	triangles  []Triangle

	// Counts of unsupported statements.
	skipped map[string]int

	// An error stack that provides additional error information when
	// obj files include other files.
	errStack []string
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	return errors.New(strings.Trim(
		fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
		"\n",
	))
}

// Push a frame to the error stack.
func (r *wavefrontReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontReader) popFrame() {
	r.errStack = r.errStack[1:]
}

func (r *wavefrontReader) parse(res *asset.Resource) error {
	lineNum := 0

	// Included obj files use 1-based indices relative to their own vertex
	// list so we need to track the vertex count when the file was opened.
	relVertexOffset := len(r.vertexList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "call"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			if err := r.include(res, lineNum, lineTokens[1]); err != nil {
				return err
			}
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "f":
			triList, err := r.parseFace(lineTokens, relVertexOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.triangles = append(r.triangles, triList...)
		default:
			r.skipped[lineTokens[0]]++
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}
	return nil
}

// Parse an obj file referenced by a "call" statement.
func (r *wavefrontReader) include(parent *asset.Resource, lineNum int, path string) error {
	r.pushFrame(fmt.Sprintf("referenced from %s:%d [call]", parent.Path(), lineNum))

	incRes, err := parent.Open(path)
	if err != nil {
		return r.emitError(parent.Path(), lineNum, "%s", err.Error())
	}
	defer incRes.Close()

	if err = r.parse(incRes); err != nil {
		return err
	}

	r.popFrame()
	return nil
}

// Parse a face definition. Each face argument may use any of the "v",
// "v/t", "v/t/n" and "v//n" formats; only the vertex index is used. This
// method only works with triangular/quad faces and will return an error if
// a face with more than 4 vertices is encountered.
func (r *wavefrontReader) parseFace(lineTokens []string, relVertexOffset int) ([]Triangle, error) {
	if len(lineTokens) < 4 || len(lineTokens) > 5 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got %d. Select the triangulation option in your exporter`, len(lineTokens)-1)
	}

	var vertices [4]types.Vec3
	expIndices := 0
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[vOffset]
	}

	triangles := []Triangle{
		{Vertices: [3]types.Vec3{vertices[0], vertices[1], vertices[2]}},
	}
	if len(lineTokens) == 5 {
		triangles = append(triangles, Triangle{Vertices: [3]types.Vec3{vertices[0], vertices[2], vertices[3]}})
	}
	return triangles, nil
}

// Given a face vertex index calculate the proper offset into the vertex
// list. Wavefront format can also use negative indices to reference
// elements from the end of the list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
