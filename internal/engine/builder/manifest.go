package builder

import (
	"strconv"
	"strings"
	"unicode"

	"go.trai.ch/quick/internal/core/domain"
)

const (
	libFile         = "src/lib.rs"
	buildScriptFile = "build.rs"
	buildScript     = "fn main() {}\n"
)

// Manifest renders the scratch Cargo.toml for closure c. Every entry, the root included, is
// declared as an exact-version dependency with its activated features and default features
// disabled. Target entries go to [dependencies] and host entries to [build-dependencies].
func Manifest(g *domain.Graph, c *domain.Closure) string {
	root := c.Root().ID

	var b strings.Builder
	b.WriteString("# " + root.Name.String() + " " + root.Version.String() + "\n\n")
	b.WriteString("[package]\n")
	b.WriteString("name = " + strconv.Quote(domain.ScratchPackageName) + "\n")
	b.WriteString("version = \"0.1.0\"\n")
	b.WriteString("edition = \"2021\"\n\n")

	b.WriteString("[dependencies]\n")
	for _, e := range c.ByClass(domain.Target) {
		b.WriteString(dependencyLine(g, e.ID))
	}
	b.WriteString("\n[build-dependencies]\n")
	for _, e := range c.ByClass(domain.Host) {
		b.WriteString(dependencyLine(g, e.ID))
	}
	return b.String()
}

// NeedsBuildScript reports whether the manifest declares build dependencies. Cargo only
// compiles those when the package has a build script.
func NeedsBuildScript(c *domain.Closure) bool {
	return len(c.ByClass(domain.Host)) > 0
}

func dependencyLine(g *domain.Graph, id domain.PackageID) string {
	name := id.Name.String()
	version := id.Version.String()

	var b strings.Builder
	b.WriteString(name + "_" + safeVersion(version))
	b.WriteString(" = { package = " + strconv.Quote(name) + ", ")
	if dir, ok := strings.CutPrefix(id.Source.String(), domain.PathSourcePrefix); ok {
		b.WriteString("path = " + strconv.Quote(dir) + ", ")
	} else {
		b.WriteString("version = " + strconv.Quote("="+version) + ", ")
	}
	b.WriteString("features = [")
	for i, f := range g.Features(id) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(f))
	}
	b.WriteString("], default-features = false }\n")
	return b.String()
}

// safeVersion turns a version into a valid TOML key suffix.
func safeVersion(v string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '_'
	}, v)
}
