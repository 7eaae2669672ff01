// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	DeclarationsNotFoundId
	DeclarationParseErrorId
	ModuleNotFoundId
	DuplicateModuleId
	PackageConflictId
	PackageNotFoundId
	InvalidNameId
	InvalidVersionId
	ReadCycleId
	AccessDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your configuration file could not be read or does not match the schema.

## Things you can try:
- Print the effective configuration:
~~~
$ modgraph config show
~~~
- Check the file for CUE syntax errors
- Allowed values: log.level is one of debug, info, warn, error;
  log.format is one of text, json, logfmt; versions.policy is freeform or semver
- Point at a different file with ` + "`--config path/to/config.cue`",
	}

	declarationsNotFoundIssue = &Issue{
		id: DeclarationsNotFoundId,
		mdMsg: `
# No declaration files found!

None of the declaration patterns matched a file.

## Things you can try:
- Pass files or globs explicitly:
~~~
$ modgraph describe -f 'graphs/**/*.cue'
~~~
- Set default patterns in your config file:
~~~cue
declarations: ["graphs/**/*.cue", "graphs/**/*.yaml"]
~~~`,
	}

	declarationParseErrorIssue = &Issue{
		id: DeclarationParseErrorId,
		mdMsg: `
# Failed to parse a declaration file!

A module declaration file has a syntax error or an unknown field.

## Things you can try:
- Supported formats are .cue, .json, .hcl, .yaml/.yml and .toml
- Each module accepts: name, version, location, automatic, packages,
  exports (package and optional to), reads and reads_all
- Validate the files on their own:
~~~
$ modgraph validate -f graph.cue
~~~`,
	}

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Module not found!

A declaration or command refers to a module that was never defined.

## Things you can try:
- Check the module name for typos
- Make sure the file declaring the module is matched by your -f patterns
- List the defined modules:
~~~
$ modgraph describe
~~~`,
	}

	duplicateModuleIssue = &Issue{
		id: DuplicateModuleId,
		mdMsg: `
# Duplicate module!

Two declarations define a module with the same name. Module names are unique
within a graph.

## Things you can try:
- Rename one of the modules
- Check that the same file is not matched twice under different names`,
	}

	packageConflictIssue = &Issue{
		id: PackageConflictId,
		mdMsg: `
# Package claimed by two modules!

Every package belongs to exactly one module. A second module tried to claim a
package that is already owned.

## Things you can try:
- Remove the package from one of the modules
- Move shared code into its own module and export it`,
	}

	packageNotFoundIssue = &Issue{
		id: PackageNotFoundId,
		mdMsg: `
# Package not found in module!

A module can only export packages it contains.

## Things you can try:
- Add the package to the module's packages list
- Export the package from the module that owns it`,
	}

	invalidNameIssue = &Issue{
		id: InvalidNameId,
		mdMsg: `
# Invalid module or package name!

Names are dot-separated identifiers, for example ` + "`com.example.lib`" + `.
Each segment starts with a letter, ` + "`_`" + ` or ` + "`$`" + `.

## Things you can try:
- Remove spaces, slashes and empty segments from the name`,
	}

	invalidVersionIssue = &Issue{
		id: InvalidVersionId,
		mdMsg: `
# Invalid module version!

The semver version policy is active and a module version is not a canonical
semantic version.

## Things you can try:
- Use a version such as ` + "`1.2.3`" + ` or ` + "`v1.2.3-rc.1`" + `
- Switch to free-form versions in your config file:
~~~cue
versions: policy: "freeform"
~~~`,
		extLinks: []HttpLink{"https://semver.org"},
	}

	readCycleIssue = &Issue{
		id: ReadCycleId,
		mdMsg: `
# Modules read each other in a cycle!

Readability may be cyclic, so this is not an error. The read order printed by
` + "`modgraph describe`" + ` lists the modules of the cycle without ordering them.`,
	}

	accessDeniedIssue = &Issue{
		id: AccessDeniedId,
		mdMsg: `
# Access denied!

A module may use a package of another module only when it reads that module
and the package is exported to it.

## Things you can try:
- **not exported**: export the package, to everyone or to the accessor
- **no read edge**: add the target to the accessor's reads, or set reads_all`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		declarationsNotFoundIssue.Id():  declarationsNotFoundIssue,
		declarationParseErrorIssue.Id(): declarationParseErrorIssue,
		moduleNotFoundIssue.Id():        moduleNotFoundIssue,
		duplicateModuleIssue.Id():       duplicateModuleIssue,
		packageConflictIssue.Id():       packageConflictIssue,
		packageNotFoundIssue.Id():       packageNotFoundIssue,
		invalidNameIssue.Id():           invalidNameIssue,
		invalidVersionIssue.Id():        invalidVersionIssue,
		readCycleIssue.Id():             readCycleIssue,
		accessDeniedIssue.Id():          accessDeniedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
