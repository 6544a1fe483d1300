// Package fingerprint renders canonical build descriptors and derives cache keys from them.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.trai.ch/quick/internal/core/domain"
)

// Describe renders the canonical descriptor of a closure.
//
// One line per entry, "name@version, [features]", split into a target and a host section.
// Entries are sorted by name, version and source, and features are sorted, so the text only
// depends on the closure's content and never on traversal or map iteration order.
func Describe(g *domain.Graph, c *domain.Closure) domain.Descriptor {
	root := c.Root().ID

	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(root.Name.String())
	b.WriteString(" ")
	b.WriteString(root.Version.String())
	b.WriteString("\n")

	writeSection(&b, "target", g, c.ByClass(domain.Target))
	writeSection(&b, "host", g, c.ByClass(domain.Host))

	return domain.Descriptor(b.String())
}

func writeSection(b *strings.Builder, name string, g *domain.Graph, entries []domain.ClosureEntry) {
	b.WriteString("\n[")
	b.WriteString(name)
	b.WriteString("]\n")
	for _, e := range entries {
		b.WriteString(e.ID.String())
		b.WriteString(", [")
		b.WriteString(strings.Join(g.Features(e.ID), ", "))
		b.WriteString("]\n")
	}
}

// Compute derives the fingerprint {name}-{version}-{hex(sha256(descriptor))}.
func Compute(id domain.PackageID, d domain.Descriptor) domain.Fingerprint {
	sum := sha256.Sum256([]byte(d))
	return domain.Fingerprint(id.Name.String() + "-" + id.Version.String() + "-" + hex.EncodeToString(sum[:]))
}
