// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"maps"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"github.com/invowk/declcli/pkg/decl"
	"github.com/invowk/declcli/pkg/engine"
	"github.com/invowk/declcli/pkg/manifest"
)

// Issue identifiers. Invocation issues reuse the engine's error codes.
const (
	CommandNotFoundId       Id = Id(engine.CodeCommandNotFound)
	UnknownOptionId         Id = Id(engine.CodeUnknownOption)
	ArgRequiredId           Id = Id(engine.CodeArgRequired)
	OptionRequiredId        Id = Id(engine.CodeOptionRequired)
	OptionValueRequiredId   Id = Id(engine.CodeOptionValueRequired)
	OptionValueUnexpectedId Id = Id(engine.CodeOptionValueUnexpected)
	ArgsExceededId          Id = Id(engine.CodeArgsExceeded)
	OptionRepeatedId        Id = Id(engine.CodeOptionRepeated)
	ValidationFailedId      Id = Id(engine.CodeValidationFailed)
	ActionFailedId          Id = Id(engine.CodeActionFailed)

	ManifestNotFoundId      Id = "MANIFEST_NOT_FOUND"
	ManifestParseErrorId    Id = "MANIFEST_PARSE_ERROR"
	UnsupportedFormatId     Id = "UNSUPPORTED_FORMAT"
	InvalidDeclarationId    Id = "INVALID_DECLARATION"
	ConfigLoadFailedId      Id = "CONFIG_LOAD_FAILED"
	ScriptExecutionFailedId Id = "SCRIPT_EXECUTION_FAILED"
)

const (
	docsBase                   = "https://github.com/invowk/declcli/blob/main/docs/"
	manifestDocs      HttpLink = docsBase + "manifest.md"
	invocationDocs    HttpLink = docsBase + "invocation.md"
	configurationDocs HttpLink = docsBase + "configuration.md"
)

type (
	// Id names an issue in the catalog.
	Id string

	MarkdownMsg string

	HttpLink string

	Renderer interface {
		Render(in string, stylePath string) (string, error)
	}

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

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

// Render renders the issue as terminal markdown using the glamour style at stylePath.
func (i *Issue) Render(stylePath string) (string, error) {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also:\n")
		for _, link := range i.docLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(sb.String(), stylePath)
}

var (
	render = glamour.Render

	commandNotFoundIssue = &Issue{
		id:       CommandNotFoundId,
		docLinks: []HttpLink{invocationDocs},
		mdMsg: `
# Command not found!

The leading words of your input do not name any declared command or alias.

## Things you can try:
- List the commands the manifest declares:
~~~
$ declcli table <manifest>
~~~

- Check for typos in the command name
- Multi-word commands must be typed word by word, e.g. ` + "`script new`",
	}

	unknownOptionIssue = &Issue{
		id:       UnknownOptionId,
		docLinks: []HttpLink{invocationDocs},
		mdMsg: `
# Unknown option!

The command does not declare this option.

## Things you can try:
- Check the option spelling and its short form
- Global options must be declared in the manifest's global scope
- Use ` + "`--`" + ` to pass the remaining tokens as positional arguments`,
	}

	argRequiredIssue = &Issue{
		id:       ArgRequiredId,
		docLinks: []HttpLink{invocationDocs},
		mdMsg: `
# Missing required argument!

Arguments written as ` + "`<name>`" + ` must always be given.

## Things you can try:
- Provide a value for every required argument, in declaration order
- Declare the argument as optional with ` + "`[name]`" + ` if it can be omitted`,
	}

	optionRequiredIssue = &Issue{
		id:       OptionRequiredId,
		docLinks: []HttpLink{invocationDocs},
		mdMsg: `
# Missing required option!

The command marks this option as required.

## Things you can try:
- Pass the option explicitly
- Remove ` + "`required`" + ` from the option and give it a default instead`,
	}

	optionValueRequiredIssue = &Issue{
		id:       OptionValueRequiredId,
		docLinks: []HttpLink{invocationDocs},
		mdMsg: `
# Option value required!

The option was given without a value, but its syntax ` + "`--name <value>`" + ` requires one.

## Things you can try:
- Pass the value after the option: ` + "`--limit 10`" + ` or ` + "`--limit=10`" + `
- Declare the value as optional with ` + "`--name [value]`",
	}

	optionValueUnexpectedIssue = &Issue{
		id:       OptionValueUnexpectedId,
		docLinks: []HttpLink{invocationDocs},
		mdMsg: `
# Unexpected option value!

Boolean options do not take a value. Use ` + "`--name`" + ` to turn them on and ` + "`--no-name`" + ` to turn them off.`,
	}

	argsExceededIssue = &Issue{
		id:       ArgsExceededId,
		docLinks: []HttpLink{invocationDocs},
		mdMsg: `
# Too many arguments!

More positional tokens were given than the command declares.

## Things you can try:
- Quote values that contain spaces
- Declare a rest argument such as ` + "`<...files>`" + ` to accept any number of values`,
	}

	optionRepeatedIssue = &Issue{
		id:       OptionRepeatedId,
		docLinks: []HttpLink{invocationDocs},
		mdMsg: `
# Option repeated!

A single-valued option was given twice with different values.

## Things you can try:
- Pass the option only once
- Declare the option as ` + "`multi`" + ` to collect every occurrence`,
	}

	validationFailedIssue = &Issue{
		id:       ValidationFailedId,
		docLinks: []HttpLink{invocationDocs, manifestDocs},
		mdMsg: `
# Validation failed!

A validator rejected one of the values you passed.

## Things you can try:
- Read the validator message above for the expected format
- Run with verbose mode to see which validator failed:
~~~
$ declcli --verbose run <manifest> -- <args>
~~~`,
	}

	actionFailedIssue = &Issue{
		id:       ActionFailedId,
		docLinks: []HttpLink{manifestDocs},
		mdMsg: `
# Action failed!

The command was parsed and validated, but one of its actions returned an error.

## Things you can try:
- Check the action output above
- Run the action script manually with the same arguments`,
	}

	manifestNotFoundIssue = &Issue{
		id:       ManifestNotFoundId,
		docLinks: []HttpLink{manifestDocs, configurationDocs},
		mdMsg: `
# No manifest found!

We searched for the manifest but couldn't find it in the expected locations.

## Search locations (in order of precedence):
1. The path as given
2. Current directory
3. ` + "`manifest.search_paths`" + ` from your config file

## Things you can try:
- Pass the full path to the manifest
- Omit the extension to try .cue, .toml, .hcl and .json in turn`,
	}

	manifestParseErrorIssue = &Issue{
		id:       ManifestParseErrorId,
		docLinks: []HttpLink{manifestDocs},
		mdMsg: `
# Failed to parse manifest!

Your manifest contains syntax errors or fields the schema does not allow.

## Things you can try:
- Check the error message above for the specific line and field
- Check the manifest structure:
~~~cue
name: "cats"
commands: [{
	name: "search"
	arguments: [{syntax: "<...query>", validators: [{builtin: "STRING"}]}]
	options: [{syntax: "-l, --limit <n>", default: "10"}]
}]
~~~`,
	}

	unsupportedFormatIssue = &Issue{
		id:       UnsupportedFormatId,
		docLinks: []HttpLink{manifestDocs},
		mdMsg: `
# Unsupported manifest format!

Manifests are read by file extension. Supported extensions are .cue, .toml, .hcl and .json.`,
	}

	invalidDeclarationIssue = &Issue{
		id:       InvalidDeclarationId,
		docLinks: []HttpLink{manifestDocs},
		mdMsg: `
# Invalid declaration!

The manifest parsed, but a command, argument or option declaration is not valid.

## Common issues:
- Two commands or aliases with the same name
- A required argument after an optional one
- A rest argument that is not the last argument
- A required field that also has a default`,
	}

	configLoadFailedIssue = &Issue{
		id:       ConfigLoadFailedId,
		docLinks: []HttpLink{configurationDocs},
		mdMsg: `
# Failed to load configuration!

Could not load the declcli configuration file.

## Things you can try:
- Check the configuration syntax
- Override single settings through ` + "`DECLCLI_*`" + ` environment variables
- Remove the config file to use defaults

## Example configuration:
~~~cue
log: {
	level: "info"
	format: "text"
}
manifest: search_paths: ["/home/user/manifests"]
~~~`,
	}

	scriptExecutionFailedIssue = &Issue{
		id:       ScriptExecutionFailedId,
		docLinks: []HttpLink{manifestDocs},
		mdMsg: `
# Script execution failed!

An action script exited with a non-zero status.

## Things you can try:
- Scripts run in the built-in POSIX shell interpreter, so bash-only syntax may fail
- Arguments and options are exported as ` + "`DECLCLI_ARG_*`" + ` and ` + "`DECLCLI_OPT_*`" + ` variables`,
		extLinks: []HttpLink{"https://github.com/mvdan/sh"},
	}

	issues = map[Id]*Issue{
		commandNotFoundIssue.Id():       commandNotFoundIssue,
		unknownOptionIssue.Id():         unknownOptionIssue,
		argRequiredIssue.Id():           argRequiredIssue,
		optionRequiredIssue.Id():        optionRequiredIssue,
		optionValueRequiredIssue.Id():   optionValueRequiredIssue,
		optionValueUnexpectedIssue.Id(): optionValueUnexpectedIssue,
		argsExceededIssue.Id():          argsExceededIssue,
		optionRepeatedIssue.Id():        optionRepeatedIssue,
		validationFailedIssue.Id():      validationFailedIssue,
		actionFailedIssue.Id():          actionFailedIssue,
		manifestNotFoundIssue.Id():      manifestNotFoundIssue,
		manifestParseErrorIssue.Id():    manifestParseErrorIssue,
		unsupportedFormatIssue.Id():     unsupportedFormatIssue,
		invalidDeclarationIssue.Id():    invalidDeclarationIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for v := range maps.Values(issues) {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b *Issue) int {
		return strings.Compare(string(a.id), string(b.id))
	})
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// ForError picks the catalog entry that best explains err, or nil.
func ForError(err error) *Issue {
	if err == nil {
		return nil
	}
	if code, ok := engine.CodeOf(err); ok {
		return Get(Id(code))
	}
	var ae *ActionableError
	if errors.As(err, &ae) && ae.Issue != "" {
		return Get(ae.Issue)
	}
	var declErr *decl.DeclarationError
	switch {
	case errors.As(err, &declErr):
		return Get(InvalidDeclarationId)
	case errors.Is(err, manifest.ErrUnsupportedFormat):
		return Get(UnsupportedFormatId)
	case errors.Is(err, os.ErrNotExist):
		return Get(ManifestNotFoundId)
	}
	return nil
}
