// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	DescriptorNotFoundId Id = iota + 1
	DescriptorParseErrorId
	InvalidDescriptorId
	MalformedMetadataId
	MetadataOutOfDateId
	OutputNotWritableId
	ConfigLoadFailedId
	DependencyCycleId
	ResourceCopyFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // lookup key
	mdMsg    MarkdownMsg // rendered through glamour
	docLinks []HttpLink
	extLinks []HttpLink
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
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

const fabricSchemaDocs HttpLink = "https://wiki.fabricmc.net/documentation:fabric_mod_json"

var (
	render = glamour.Render

	descriptorNotFoundIssue = &Issue{
		id: DescriptorNotFoundId,
		mdMsg: `
# No mod descriptor found!

launchpad reads the mod metadata from a descriptor file next to ` + "`launchpad.cue`" + `.
Without one, ` + "`generate`" + ` removes any previously generated fabric.mod.json.

## Supported descriptor files
- fabric.mod.cue
- fabric.mod.toml
- fabric.mod.yaml (or .yml)

## Things you can try
- Point launchpad at your descriptor:
~~~
$ launchpad generate --descriptor path/to/fabric.mod.toml
~~~
- Or set it in launchpad.cue:
~~~cue
descriptor: "fabric.mod.toml"
~~~`,
		docLinks: []HttpLink{fabricSchemaDocs},
	}

	descriptorParseErrorIssue = &Issue{
		id: DescriptorParseErrorId,
		mdMsg: `
# Failed to parse the mod descriptor!

The descriptor is not valid CUE, TOML or YAML, or it does not match the
descriptor schema.

## Minimal descriptor
~~~cue
id:      "examplemod"
version: "1.0.0"
entrypoints: main: ["com.example.ExampleMod"]
~~~

## Things you can try
- Check the line and column reported above
- Make sure field names match the fabric.mod.json keys (for example
  ` + "`languageAdapters`" + `, not ` + "`language_adapters`" + `)`,
		docLinks: []HttpLink{fabricSchemaDocs},
	}

	invalidDescriptorIssue = &Issue{
		id: InvalidDescriptorId,
		mdMsg: `
# The mod descriptor is invalid!

Every field error is listed above. Common causes:

- **id** must start with a lowercase letter and be 2 to 64 characters of
  ` + "`a-z`, `0-9`, `-` or `_`" + `
- **environment** must be ` + "`*`, `client` or `server`" + `
- **icon** takes either a single path or a map of sizes such as ` + "`\"16\"`" + `, not both
- entry point values must be non-empty
- extra contact or entry point keys must not repeat a built-in key`,
		docLinks: []HttpLink{fabricSchemaDocs},
	}

	malformedMetadataIssue = &Issue{
		id: MalformedMetadataId,
		mdMsg: `
# fabric.mod.json is malformed!

The document could not be decoded. The path above (for example
` + "`authors[1].contact`" + `) points at the offending value.

## Things you can try
- Regenerate the file from the descriptor:
~~~
$ launchpad generate
~~~`,
		docLinks: []HttpLink{fabricSchemaDocs},
	}

	metadataOutOfDateIssue = &Issue{
		id: MetadataOutOfDateId,
		mdMsg: `
# fabric.mod.json is out of date!

The generated file does not match the descriptor.

## Things you can try
~~~
$ launchpad generate
~~~`,
	}

	outputNotWritableIssue = &Issue{
		id: OutputNotWritableId,
		mdMsg: `
# Cannot write the generated metadata!

## Things you can try
- Make sure ` + "`output_dir`" + ` names a directory, not a file
- Check the permissions of the build directory`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

launchpad merges the user-level launchpad.cue, the project launchpad.cue and
LAUNCHPAD_* environment variables, in that order.

## Things you can try
- Print the effective configuration:
~~~
$ launchpad config show
~~~
- Write a project configuration with the defaults:
~~~
$ launchpad config init
~~~

## Example configuration
~~~cue
descriptor:   "fabric.mod.cue"
output_dir:   "build/generated-sources/fabric-mod-metadata"
pretty_print: true
resources: dirs: ["src/main/resources"]
watch: debounce: "500ms"
~~~`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Task dependency cycle detected!

The build tasks depend on each other in a loop, so no execution order exists.

## Things you can try
- List the tasks and their dependencies:
~~~
$ launchpad tasks
~~~`,
	}

	resourceCopyFailedIssue = &Issue{
		id: ResourceCopyFailedId,
		mdMsg: `
# Failed to process resources!

## Things you can try
- Check that every entry of ` + "`resources.dirs`" + ` exists and is readable
- Check that ` + "`resources.output_dir`" + ` is writable`,
	}

	issues = map[Id]*Issue{
		descriptorNotFoundIssue.Id():   descriptorNotFoundIssue,
		descriptorParseErrorIssue.Id(): descriptorParseErrorIssue,
		invalidDescriptorIssue.Id():    invalidDescriptorIssue,
		malformedMetadataIssue.Id():    malformedMetadataIssue,
		metadataOutOfDateIssue.Id():    metadataOutOfDateIssue,
		outputNotWritableIssue.Id():    outputNotWritableIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		dependencyCycleIssue.Id():      dependencyCycleIssue,
		resourceCopyFailedIssue.Id():   resourceCopyFailedIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for issue := range maps.Values(issues) {
		values = append(values, issue)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
