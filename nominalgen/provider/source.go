package provider

import (
	"context"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"slices"
	"strings"

	"github.com/broady/nominal"
	"github.com/broady/nominal/internal/directive"
	"github.com/broady/nominal/nominalgen/ir"
	"golang.org/x/tools/go/packages"
)

// SourceProvider maps exported Go types onto the nominal model.
//
// Exported interfaces become interfaces, with embedded interfaces as their
// base interfaces. Exported structs become classes: the first embedded
// struct is the base class, and the exported interfaces of the loaded
// packages that the pointer type satisfies become its interfaces. Named
// integer types with constants become enums. Type parameters become
// generic arity. A package-level Main function becomes the static entry
// point method of the Program class.
//
// Methods may carry comment directives:
//
//	//nominal:static           marks the method static
//	//nominal:inline <code>    replaces calls with an inline code template
type SourceProvider struct{}

// SourceInputOptions configures source-based declaration extraction.
type SourceInputOptions struct {
	// Packages are the Go package paths to analyze. The first package
	// names the module and holds the entry point.
	Packages []string

	// Dir is the directory in which to run the build system.
	// The current directory is used if empty.
	Dir string

	// Namespaces maps package paths to namespaces. A package without an
	// entry uses its package name.
	Namespaces map[string]string

	// Module overrides the module name. Defaults to the first package's name.
	Module string

	// EntryType is the simple name of the class that receives a
	// package-level Main function. Defaults to DefaultEntryType.
	EntryType string
}

// BuildProgram loads the packages and returns the declared program.
func (p *SourceProvider) BuildProgram(ctx context.Context, opts SourceInputOptions) (*ir.Program, error) {
	if len(opts.Packages) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}

	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}

	// packages.Load does not preserve input order
	mainPkg := pkgs[0]
	for _, pkg := range pkgs {
		if pkg.PkgPath == opts.Packages[0] {
			mainPkg = pkg
			break
		}
	}

	directives := make(directive.Result)
	for _, pkg := range pkgs {
		found, err := directive.ParseFiles(pkg.Fset, pkg.Syntax)
		if err != nil {
			return nil, err
		}
		for pos, set := range found {
			directives[pos] = set
		}
	}

	b := &programBuilder{
		pkgs:       pkgs,
		directives: directives,
		fset:       mainPkg.Fset,
		opts:       opts,
		program:    &ir.Program{Module: opts.Module},
		loaded:     make(map[*types.Package]*packages.Package),
		kinds:      make(map[*types.TypeName]ir.DescriptorKind),
		enumConsts: make(map[*types.TypeName][]*types.Const),
	}
	if b.program.Module == "" {
		b.program.Module = mainPkg.Name
	}
	for _, pkg := range pkgs {
		b.loaded[pkg.Types] = pkg
	}

	b.classify()
	b.build()
	b.entryPoint(mainPkg)
	return b.program, nil
}

// programBuilder accumulates declarations across the loaded packages.
type programBuilder struct {
	pkgs    []*packages.Package
	fset    *token.FileSet
	opts    SourceInputOptions
	program *ir.Program

	loaded     map[*types.Package]*packages.Package
	kinds      map[*types.TypeName]ir.DescriptorKind
	order      []*types.TypeName
	directives directive.Result
	ifaces     []*types.Named // non-generic interfaces with methods
	enumConsts map[*types.TypeName][]*types.Const
}

// classify decides which exported types are declared and as what.
func (b *programBuilder) classify() {
	for _, pkg := range b.pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok {
				continue
			}

			switch u := named.Underlying().(type) {
			case *types.Struct:
				b.kinds[tn] = ir.KindClass
			case *types.Interface:
				if !u.IsMethodSet() {
					continue
				}
				b.kinds[tn] = ir.KindInterface
				if named.TypeParams().Len() == 0 && u.NumMethods() > 0 {
					b.ifaces = append(b.ifaces, named)
				}
			case *types.Basic:
				if u.Info()&types.IsInteger == 0 {
					continue
				}
				consts := b.scanEnumConstants(tn, named)
				if len(consts) == 0 {
					continue
				}
				b.kinds[tn] = ir.KindEnum
				b.enumConsts[tn] = consts
			default:
				continue
			}
			b.order = append(b.order, tn)
		}
	}
}

// scanEnumConstants returns the constants of the named type in
// declaration order.
func (b *programBuilder) scanEnumConstants(tn *types.TypeName, named *types.Named) []*types.Const {
	var consts []*types.Const
	scope := tn.Pkg().Scope()
	for _, name := range scope.Names() {
		cnst, ok := scope.Lookup(name).(*types.Const)
		if ok && types.Identical(cnst.Type(), named) {
			consts = append(consts, cnst)
		}
	}
	slices.SortFunc(consts, func(a, b *types.Const) int { return int(a.Pos() - b.Pos()) })
	return consts
}

func (b *programBuilder) build() {
	for _, tn := range b.order {
		named := tn.Type().(*types.Named)
		switch b.kinds[tn] {
		case ir.KindClass:
			b.program.AddType(b.buildClass(tn, named))
		case ir.KindInterface:
			b.program.AddType(b.buildInterface(tn, named))
		case ir.KindEnum:
			b.program.AddType(b.buildEnum(tn))
		}
	}
}

func (b *programBuilder) buildClass(tn *types.TypeName, named *types.Named) *ir.ClassDescriptor {
	cd := &ir.ClassDescriptor{
		Name:           b.typeName(tn),
		TypeParameters: typeParamNames(named.TypeParams()),
		Documentation:  b.extractDocumentation(tn),
		Source:         b.extractSource(tn),
	}

	var baseType types.Type
	st := named.Underlying().(*types.Struct)
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		ft := types.Unalias(f.Type())
		if ptr, ok := ft.(*types.Pointer); ok {
			ft = types.Unalias(ptr.Elem())
		}
		embedded, ok := ft.(*types.Named)
		if !ok {
			continue
		}
		if _, ok := embedded.Underlying().(*types.Struct); !ok {
			continue
		}
		ref, ok := b.typeExpr(embedded).(*ir.ReferenceDescriptor)
		if !ok || ref.Target == nominal.ObjectName {
			continue
		}
		cd.Base = ref
		baseType = embedded
		break
	}

	// Interface satisfaction is only checked for non-generic types.
	if named.TypeParams().Len() == 0 {
		ptr := types.NewPointer(named)
		var implemented []*types.Named
		for _, iface := range b.ifaces {
			it := iface.Underlying().(*types.Interface)
			if !types.Implements(ptr, it) {
				continue
			}
			if baseType != nil && types.Implements(types.NewPointer(baseType), it) {
				continue
			}
			implemented = append(implemented, iface)
		}
		for _, iface := range implemented {
			if !impliedBy(iface, implemented) {
				cd.Interfaces = append(cd.Interfaces, ir.Ref(b.typeName(iface.Obj())))
			}
		}
	}

	for i := 0; i < named.NumMethods(); i++ {
		if fn := named.Method(i); fn.Exported() {
			cd.Methods = append(cd.Methods, b.method(fn))
		}
	}
	return cd
}

func (b *programBuilder) buildInterface(tn *types.TypeName, named *types.Named) *ir.InterfaceDescriptor {
	id := &ir.InterfaceDescriptor{
		Name:           b.typeName(tn),
		TypeParameters: typeParamNames(named.TypeParams()),
		Documentation:  b.extractDocumentation(tn),
		Source:         b.extractSource(tn),
	}

	it := named.Underlying().(*types.Interface)
	for i := 0; i < it.NumEmbeddeds(); i++ {
		embedded, ok := types.Unalias(it.EmbeddedType(i)).(*types.Named)
		if !ok {
			continue
		}
		if _, ok := embedded.Underlying().(*types.Interface); !ok {
			continue
		}
		if b.kinds[embedded.Obj()] != ir.KindInterface {
			b.program.AddWarning(ir.Warning{
				Code:     "EXTERNAL_INTERFACE",
				Message:  fmt.Sprintf("interface %s embeds %s, which is not declared; dropped", id.Name, embedded.Obj().Name()),
				TypeName: id.Name,
			})
			continue
		}
		if ref, ok := b.typeExpr(embedded).(*ir.ReferenceDescriptor); ok {
			id.Interfaces = append(id.Interfaces, ref)
		}
	}

	for i := 0; i < it.NumExplicitMethods(); i++ {
		if fn := it.ExplicitMethod(i); fn.Exported() {
			id.Methods = append(id.Methods, b.method(fn))
		}
	}
	return id
}

func (b *programBuilder) buildEnum(tn *types.TypeName) *ir.EnumDescriptor {
	ed := &ir.EnumDescriptor{
		Name:          b.typeName(tn),
		Documentation: b.extractDocumentation(tn),
		Source:        b.extractSource(tn),
	}

	var values []int64
	for _, c := range b.enumConsts[tn] {
		v, exact := constant.Int64Val(constant.ToInt(c.Val()))
		if !exact {
			b.program.AddWarning(ir.Warning{
				Code:     "ENUM_VALUE_RANGE",
				Message:  fmt.Sprintf("constant %s of %s does not fit in 64 bits; skipped", c.Name(), ed.Name),
				TypeName: ed.Name,
			})
			continue
		}
		ed.Members = append(ed.Members, ir.EnumMember{
			Name:          c.Name(),
			Value:         v,
			Documentation: b.extractDocumentation(c),
		})
		values = append(values, v)
	}
	ed.Flags = strings.HasSuffix(tn.Name(), "Flags") || bitmaskOnly(values)
	return ed
}

// bitmaskOnly reports whether every non-zero value is a single bit and the
// values reach past the range a counted enumeration would use.
func bitmaskOnly(values []int64) bool {
	var bits int
	var widest int64
	for _, v := range values {
		if v == 0 {
			continue
		}
		if v < 0 || v&(v-1) != 0 {
			return false
		}
		bits++
		widest = max(widest, v)
	}
	return bits >= 2 && widest >= 4
}

// impliedBy reports whether another interface in set embeds iface.
func impliedBy(iface *types.Named, set []*types.Named) bool {
	for _, other := range set {
		if other != iface && embeds(other, iface) {
			return true
		}
	}
	return false
}

func embeds(outer, inner *types.Named) bool {
	it, ok := outer.Underlying().(*types.Interface)
	if !ok {
		return false
	}
	for i := 0; i < it.NumEmbeddeds(); i++ {
		e, ok := types.Unalias(it.EmbeddedType(i)).(*types.Named)
		if !ok {
			continue
		}
		if e.Obj() == inner.Obj() || embeds(e, inner) {
			return true
		}
	}
	return false
}

// method converts a function or method to a MethodDescriptor.
func (b *programBuilder) method(fn *types.Func) ir.MethodDescriptor {
	md := ir.MethodDescriptor{
		Name:   fn.Name(),
		Source: b.extractSource(fn),
	}
	sig := fn.Type().(*types.Signature)
	for i := 0; i < sig.Params().Len(); i++ {
		v := sig.Params().At(i)
		md.Parameters = append(md.Parameters, ir.ParameterDescriptor{
			Name: v.Name(),
			Type: b.typeExpr(v.Type()),
		})
	}
	set := b.directives.Lookup(fn.Pos())
	md.Static = set.Static
	md.InlineCode = set.InlineCode
	return md
}

// entryPoint attaches a package-level Main function to the entry class, or
// falls back to the first class declaring a static Main method.
func (b *programBuilder) entryPoint(mainPkg *packages.Package) {
	var fn *types.Func
	for _, name := range []string{EntryMethodName, "main"} {
		if f, ok := mainPkg.Types.Scope().Lookup(name).(*types.Func); ok {
			fn = f
			break
		}
	}

	if fn == nil {
		for _, t := range b.program.Types {
			cd, ok := t.(*ir.ClassDescriptor)
			if !ok {
				continue
			}
			if m := cd.Method(EntryMethodName); m != nil && m.Static {
				b.program.EntryPoint = &ir.EntryPoint{Type: cd.TypeName(), Method: EntryMethodName}
				return
			}
		}
		return
	}

	entryType := b.opts.EntryType
	if entryType == "" {
		entryType = DefaultEntryType
	}
	typeName := qualify(b.namespace(mainPkg.Types), entryType)

	var cd *ir.ClassDescriptor
	switch existing := b.program.FindType(typeName).(type) {
	case nil:
		cd = &ir.ClassDescriptor{Name: typeName, Source: b.extractSource(fn)}
		b.program.AddType(cd)
	case *ir.ClassDescriptor:
		cd = existing
	default:
		b.program.AddWarning(ir.Warning{
			Code:     "ENTRY_POINT_CONFLICT",
			Message:  fmt.Sprintf("entry type %s is a %s, not a class", typeName, strings.ToLower(existing.Kind().String())),
			TypeName: typeName,
		})
		return
	}

	if cd.Method(EntryMethodName) != nil {
		b.program.AddWarning(ir.Warning{
			Code:     "ENTRY_POINT_CONFLICT",
			Message:  fmt.Sprintf("%s already declares %s; package function %s ignored", typeName, EntryMethodName, fn.Name()),
			TypeName: typeName,
		})
		return
	}

	md := b.method(fn)
	md.Name = EntryMethodName
	md.Static = true
	cd.Methods = append(cd.Methods, md)
	b.program.EntryPoint = &ir.EntryPoint{Type: typeName, Method: EntryMethodName}
}

// typeExpr converts a Go type to a type expression over declared names.
func (b *programBuilder) typeExpr(t types.Type) ir.TypeDescriptor {
	switch t := types.Unalias(t).(type) {
	case *types.TypeParam:
		return ir.TypeParam(t.Obj().Name(), t.Index())
	case *types.Pointer:
		return b.typeExpr(t.Elem())
	case *types.Named:
		return b.namedExpr(t)
	case *types.Basic:
		switch info := t.Info(); {
		case info&types.IsString != 0:
			return intrinsicRef(nominal.IntrinsicText)
		case info&types.IsBoolean != 0:
			return intrinsicRef(nominal.IntrinsicBoolean)
		case info&types.IsNumeric != 0:
			return intrinsicRef(nominal.IntrinsicNumber)
		}
	case *types.Slice, *types.Array:
		return intrinsicRef(nominal.IntrinsicSequence)
	}
	return ir.Ref(nominal.ObjectName)
}

func (b *programBuilder) namedExpr(n *types.Named) ir.TypeDescriptor {
	obj := n.Obj()
	pkg := obj.Pkg()
	if pkg == nil {
		return ir.Ref(nominal.ObjectName)
	}
	if pkg.Path() == "time" && obj.Name() == "Time" {
		return intrinsicRef(nominal.IntrinsicTemporal)
	}
	if _, ok := b.kinds[obj]; ok {
		var args []ir.TypeDescriptor
		for i := 0; i < n.TypeArgs().Len(); i++ {
			args = append(args, b.typeExpr(n.TypeArgs().At(i)))
		}
		return ir.Ref(b.typeName(obj), args...)
	}
	if _, ok := b.loaded[pkg]; ok {
		return b.typeExpr(n.Underlying())
	}

	// Types of packages that are not loaded are known only by name.
	switch n.Underlying().(type) {
	case *types.Struct, *types.Interface:
		if n.TypeArgs().Len() > 0 {
			return ir.Ref(nominal.ObjectName)
		}
		name := qualify(pkg.Name(), obj.Name())
		if !slices.Contains(b.program.Imported, name) {
			b.program.Imported = append(b.program.Imported, name)
		}
		return ir.Ref(name)
	default:
		return b.typeExpr(n.Underlying())
	}
}

func (b *programBuilder) namespace(pkg *types.Package) string {
	if ns, ok := b.opts.Namespaces[pkg.Path()]; ok {
		return ns
	}
	return pkg.Name()
}

func (b *programBuilder) typeName(tn *types.TypeName) string {
	return qualify(b.namespace(tn.Pkg()), tn.Name())
}

func typeParamNames(list *types.TypeParamList) []string {
	var names []string
	for i := 0; i < list.Len(); i++ {
		names = append(names, list.At(i).Obj().Name())
	}
	return names
}

// docComment finds the comment group documenting obj.
func (b *programBuilder) docComment(obj types.Object) *ast.CommentGroup {
	pkg, ok := b.loaded[obj.Pkg()]
	if !ok {
		return nil
	}
	pos := obj.Pos()
	for _, file := range pkg.Syntax {
		if file.Pos() > pos || file.End() < pos {
			continue
		}
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Name.Pos() == pos {
					return d.Doc
				}
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					var doc *ast.CommentGroup
					var names []*ast.Ident
					switch s := spec.(type) {
					case *ast.TypeSpec:
						doc, names = s.Doc, []*ast.Ident{s.Name}
					case *ast.ValueSpec:
						doc, names = s.Doc, s.Names
					}
					for _, n := range names {
						if n.Pos() != pos {
							continue
						}
						if doc == nil && !d.Lparen.IsValid() {
							doc = d.Doc
						}
						return doc
					}
				}
			}
		}
	}
	return nil
}

// extractDocumentation extracts the documentation of a declaration.
func (b *programBuilder) extractDocumentation(obj types.Object) ir.Documentation {
	cg := b.docComment(obj)
	if cg == nil {
		return ir.Documentation{}
	}
	return newDocumentation(cg.Text())
}

// extractSource extracts source location information.
func (b *programBuilder) extractSource(obj types.Object) ir.Source {
	pos := obj.Pos()
	if !pos.IsValid() || b.fset == nil {
		return ir.Source{}
	}
	position := b.fset.Position(pos)
	return ir.Source{
		File:   position.Filename,
		Line:   position.Line,
		Column: position.Column,
	}
}
