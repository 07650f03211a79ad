package graph

import (
	"time"

	"github.com/google/uuid"

	"github.com/trustify-project/analysis-engine/cpeid"
	"github.com/trustify-project/analysis-engine/purl"
)

// NodeID is an SBOM-local node identifier (an SPDX or CycloneDX node id
// string). It is only unique within a single SBOM's graph; cross-SBOM
// identity goes through external references (package externalref).
type NodeID string

// NodeKind tags the three disjoint node variants spec.md §9 calls for:
// inheritance is inappropriate here since each variant has distinct fields
// and traversal rules.
type NodeKind int

const (
	KindUnknown NodeKind = iota
	KindPackage
	KindExternal
)

func (k NodeKind) String() string {
	switch k {
	case KindPackage:
		return "package"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// BaseNode holds the fields common to every node variant.
type BaseNode struct {
	SbomID         uuid.UUID
	NodeID         NodeID
	Name           string
	Published      time.Time
	DocumentID     *string
	ProductName    *string
	ProductVersion *string
}

// PackageNode is a node backed by an actual software component: it carries
// zero or more PURLs and CPEs and an informational version string.
type PackageNode struct {
	BaseNode
	Version string
	Purl    []purl.Purl
	CPE     []cpeid.CPE
}

// ExternalNode is a terminal node pointing at another SBOM document by
// reference, rather than describing a component directly. The traversal
// engine treats it as a leaf within its own graph and consults the
// externalref resolver to continue across documents.
type ExternalNode struct {
	BaseNode
	ExternalDocumentReference string
	ExternalNodeID            string
}

// UnknownNode is a node that matched neither a package row nor an external
// reference row; it carries only the common fields.
type UnknownNode struct {
	BaseNode
}

// Node is implemented by PackageNode, ExternalNode, and UnknownNode.
type Node interface {
	Kind() NodeKind
	Base() BaseNode
	ID() NodeID
}

func (n PackageNode) Kind() NodeKind  { return KindPackage }
func (n PackageNode) Base() BaseNode  { return n.BaseNode }
func (n PackageNode) ID() NodeID      { return n.NodeID }

func (n ExternalNode) Kind() NodeKind { return KindExternal }
func (n ExternalNode) Base() BaseNode { return n.BaseNode }
func (n ExternalNode) ID() NodeID     { return n.NodeID }

func (n UnknownNode) Kind() NodeKind { return KindUnknown }
func (n UnknownNode) Base() BaseNode { return n.BaseNode }
func (n UnknownNode) ID() NodeID     { return n.NodeID }

var (
	_ Node = PackageNode{}
	_ Node = ExternalNode{}
	_ Node = UnknownNode{}
)
