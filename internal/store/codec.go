package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/funvibe/funherit/internal/ast"
	"github.com/funvibe/funherit/internal/registry"
	"github.com/funvibe/funherit/internal/token"
)

// The registry blob codec. Bodies are encoded as kind-discriminated node
// documents; token positions are not persisted (a registry read back from
// the store belongs to an already finalized unit, whose diagnostics are
// long since reported).

type nodeDoc struct {
	Kind string     `json:"kind"`
	Int  int64      `json:"int,omitempty"`
	Str  string     `json:"str,omitempty"`
	Bool bool       `json:"bool,omitempty"`
	Name string     `json:"name,omitempty"`
	Unit string     `json:"unit,omitempty"`
	Op   string     `json:"op,omitempty"`
	Kids []*nodeDoc `json:"kids,omitempty"`
}

type paramDoc struct {
	Name    string   `json:"name,omitempty"`
	Pattern *nodeDoc `json:"pattern,omitempty"`
	Default *nodeDoc `json:"default,omitempty"`
}

type keyDoc struct {
	Name  string `json:"name"`
	Arity int    `json:"arity"`
}

type routineDoc struct {
	Key      keyDoc     `json:"key"`
	Params   []paramDoc `json:"params"`
	Guards   []*nodeDoc `json:"guards,omitempty"`
	Body     *nodeDoc   `json:"body"`
	Origin   string     `json:"origin"`
	Override bool       `json:"override"`
}

type fieldDoc struct {
	Name    string   `json:"name"`
	Default *nodeDoc `json:"default"`
}

type registryDoc struct {
	ID       string       `json:"id"`
	Base     string       `json:"base,omitempty"`
	Routines []routineDoc `json:"routines"`
	Private  []keyDoc     `json:"private,omitempty"`
	Withheld []keyDoc     `json:"withheld,omitempty"`
	Fields   []fieldDoc   `json:"fields,omitempty"`
	Deps     []string     `json:"deps,omitempty"`
	PreHook  *nodeDoc     `json:"pre_hook,omitempty"`
	PostHook *nodeDoc     `json:"post_hook,omitempty"`
}

// EncodeRegistry serializes a finalized registry to its store blob.
func EncodeRegistry(reg *registry.Registry) ([]byte, error) {
	if !reg.Finalized() {
		return nil, fmt.Errorf("store: cannot encode unfinalized registry %s", reg.ID())
	}
	doc := registryDoc{ID: reg.ID(), Base: reg.Base()}
	for _, key := range reg.Keys() {
		rec, _ := reg.Lookup(key)
		rd := routineDoc{
			Key:      keyDoc{Name: key.Name, Arity: key.Arity},
			Params:   make([]paramDoc, len(rec.Params)),
			Body:     encodeNode(rec.Body),
			Origin:   rec.Origin.String(),
			Override: rec.OverridePermitted,
		}
		for i, p := range rec.Params {
			rd.Params[i] = encodeParam(p)
		}
		for _, g := range rec.Guards {
			rd.Guards = append(rd.Guards, encodeNode(g))
		}
		doc.Routines = append(doc.Routines, rd)
	}
	doc.Private = encodeKeySet(reg.PrivateNames())
	doc.Withheld = encodeKeySet(reg.WithheldKeys())
	for _, name := range reg.FieldNames() {
		def, _ := reg.FieldDefault(name)
		doc.Fields = append(doc.Fields, fieldDoc{Name: name, Default: encodeNode(def)})
	}
	for dep := range reg.Dependencies() {
		doc.Deps = append(doc.Deps, dep)
	}
	sort.Strings(doc.Deps)
	pre, post := reg.Hooks()
	doc.PreHook = encodeNode(pre)
	doc.PostHook = encodeNode(post)
	return json.Marshal(doc)
}

// DecodeRegistry rebuilds a registry from its store blob. The result is
// finalized: blobs only ever hold published registries.
func DecodeRegistry(blob []byte) (*registry.Registry, error) {
	var doc registryDoc
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("store: corrupt registry blob: %w", err)
	}
	reg := registry.New(doc.ID)
	if doc.Base != "" {
		if err := reg.SetBase(doc.Base); err != nil {
			return nil, err
		}
	}
	for _, rd := range doc.Routines {
		rec := &registry.Record{
			Params:            make([]*ast.Parameter, len(rd.Params)),
			Body:              decodeNode(rd.Body),
			Origin:            decodeOrigin(rd.Origin),
			OverridePermitted: rd.Override,
		}
		for i, pd := range rd.Params {
			rec.Params[i] = decodeParam(pd)
		}
		for _, g := range rd.Guards {
			rec.Guards = append(rec.Guards, decodeNode(g))
		}
		key := registry.Key{Name: rd.Key.Name, Arity: rd.Key.Arity}
		if d := reg.Declare(token.Token{}, key, rec); d != nil {
			return nil, fmt.Errorf("store: blob for %s: %s", doc.ID, d.Error())
		}
	}
	for _, kd := range doc.Private {
		reg.MarkPrivate(registry.Key{Name: kd.Name, Arity: kd.Arity})
	}
	for _, kd := range doc.Withheld {
		reg.Withhold(registry.Key{Name: kd.Name, Arity: kd.Arity})
	}
	for _, fd := range doc.Fields {
		reg.SetFieldDefault(fd.Name, decodeNode(fd.Default))
	}
	for _, dep := range doc.Deps {
		reg.AddDependency(dep)
	}
	reg.SetHooks(decodeNode(doc.PreHook), decodeNode(doc.PostHook))
	if err := reg.Finalize(); err != nil {
		return nil, err
	}
	return reg, nil
}

func encodeKeySet(set map[registry.Key]bool) []keyDoc {
	if len(set) == 0 {
		return nil
	}
	out := make([]keyDoc, 0, len(set))
	for key := range set {
		out = append(out, keyDoc{Name: key.Name, Arity: key.Arity})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Arity < out[j].Arity
	})
	return out
}

func decodeOrigin(s string) registry.Origin {
	switch s {
	case "copied":
		return registry.OriginCopied
	case "delegated":
		return registry.OriginDelegated
	default:
		return registry.OriginNative
	}
}

func encodeParam(p *ast.Parameter) paramDoc {
	doc := paramDoc{}
	if p.Name != nil {
		doc.Name = p.Name.Value
	}
	if p.Pattern != nil {
		doc.Pattern = encodePattern(p.Pattern)
	}
	if p.Default != nil {
		doc.Default = encodeNode(p.Default)
	}
	return doc
}

func decodeParam(doc paramDoc) *ast.Parameter {
	p := &ast.Parameter{}
	if doc.Pattern != nil {
		p.Pattern = decodePattern(doc.Pattern)
	} else {
		p.Name = &ast.Identifier{Value: doc.Name}
	}
	if doc.Default != nil {
		p.Default = decodeNode(doc.Default)
	}
	return p
}

func encodePattern(pat ast.Pattern) *nodeDoc {
	switch pt := pat.(type) {
	case *ast.WildcardPattern:
		return &nodeDoc{Kind: "pat_wild"}
	case *ast.IdentifierPattern:
		return &nodeDoc{Kind: "pat_ident", Name: pt.Name.Value}
	case *ast.TuplePattern:
		doc := &nodeDoc{Kind: "pat_tuple"}
		for _, el := range pt.Elements {
			doc.Kids = append(doc.Kids, encodePattern(el))
		}
		return doc
	default:
		return &nodeDoc{Kind: "pat_wild"}
	}
}

func decodePattern(doc *nodeDoc) ast.Pattern {
	switch doc.Kind {
	case "pat_ident":
		return &ast.IdentifierPattern{Name: &ast.Identifier{Value: doc.Name}}
	case "pat_tuple":
		p := &ast.TuplePattern{}
		for _, kid := range doc.Kids {
			p.Elements = append(p.Elements, decodePattern(kid))
		}
		return p
	default:
		return &ast.WildcardPattern{}
	}
}

func encodeNode(expr ast.Expression) *nodeDoc {
	if expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case *ast.Identifier:
		return &nodeDoc{Kind: "ident", Name: e.Value}
	case *ast.IntegerLiteral:
		return &nodeDoc{Kind: "int", Int: e.Value}
	case *ast.StringLiteral:
		return &nodeDoc{Kind: "string", Str: e.Value}
	case *ast.BooleanLiteral:
		return &nodeDoc{Kind: "bool", Bool: e.Value}
	case *ast.NilLiteral:
		return &nodeDoc{Kind: "nil"}
	case *ast.TupleLiteral:
		return &nodeDoc{Kind: "tuple", Kids: encodeAll(e.Elements)}
	case *ast.CallExpression:
		return &nodeDoc{Kind: "call", Name: e.Function.Value, Kids: encodeAll(e.Arguments)}
	case *ast.BaseCall:
		return &nodeDoc{Kind: "base_call", Name: e.Name, Kids: encodeAll(e.Arguments)}
	case *ast.RemoteCall:
		return &nodeDoc{Kind: "remote_call", Unit: e.Unit, Name: e.Name, Kids: encodeAll(e.Arguments)}
	case *ast.PrefixExpression:
		return &nodeDoc{Kind: "prefix", Op: e.Operator, Kids: []*nodeDoc{encodeNode(e.Right)}}
	case *ast.InfixExpression:
		return &nodeDoc{Kind: "infix", Op: e.Operator, Kids: []*nodeDoc{encodeNode(e.Left), encodeNode(e.Right)}}
	case *ast.IfExpression:
		kids := []*nodeDoc{encodeNode(e.Condition), encodeNode(e.Consequence)}
		if e.Alternative != nil {
			kids = append(kids, encodeNode(e.Alternative))
		}
		return &nodeDoc{Kind: "if", Kids: kids}
	default:
		return &nodeDoc{Kind: "nil"}
	}
}

func encodeAll(exprs []ast.Expression) []*nodeDoc {
	out := make([]*nodeDoc, len(exprs))
	for i, e := range exprs {
		out[i] = encodeNode(e)
	}
	return out
}

func decodeNode(doc *nodeDoc) ast.Expression {
	if doc == nil {
		return nil
	}
	switch doc.Kind {
	case "ident":
		return &ast.Identifier{Value: doc.Name}
	case "int":
		return &ast.IntegerLiteral{Value: doc.Int}
	case "string":
		return &ast.StringLiteral{Value: doc.Str}
	case "bool":
		return &ast.BooleanLiteral{Value: doc.Bool}
	case "nil":
		return &ast.NilLiteral{}
	case "tuple":
		return &ast.TupleLiteral{Elements: decodeAll(doc.Kids)}
	case "call":
		return &ast.CallExpression{Function: &ast.Identifier{Value: doc.Name}, Arguments: decodeAll(doc.Kids)}
	case "base_call":
		return &ast.BaseCall{Name: doc.Name, Arguments: decodeAll(doc.Kids)}
	case "remote_call":
		return &ast.RemoteCall{Unit: doc.Unit, Name: doc.Name, Arguments: decodeAll(doc.Kids)}
	case "prefix":
		if len(doc.Kids) == 1 {
			return &ast.PrefixExpression{Operator: doc.Op, Right: decodeNode(doc.Kids[0])}
		}
	case "infix":
		if len(doc.Kids) == 2 {
			return &ast.InfixExpression{Operator: doc.Op, Left: decodeNode(doc.Kids[0]), Right: decodeNode(doc.Kids[1])}
		}
	case "if":
		if len(doc.Kids) >= 2 {
			ife := &ast.IfExpression{Condition: decodeNode(doc.Kids[0]), Consequence: decodeNode(doc.Kids[1])}
			if len(doc.Kids) == 3 {
				ife.Alternative = decodeNode(doc.Kids[2])
			}
			return ife
		}
	}
	return &ast.NilLiteral{}
}

func decodeAll(docs []*nodeDoc) []ast.Expression {
	if docs == nil {
		return nil
	}
	out := make([]ast.Expression, len(docs))
	for i, d := range docs {
		out[i] = decodeNode(d)
	}
	return out
}
