// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ModuleNotFoundId Id = iota + 1
	RepositoryNotFoundId
	NotAnArchiveId
	NotADirectoryId
	ArchiveEntryNotDirectoryId
	InvalidLocatorId
	InvalidModuleIDId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	name     string      // stable name used by `modrepo issue <name>`
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Name() string {
	return i.name
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

// Render renders the issue's Markdown with glamour. An empty stylePath
// selects glamour's default style.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	if stylePath == "" {
		stylePath = "auto"
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	moduleNotFoundIssue = &Issue{
		id:   ModuleNotFoundId,
		name: "module-not-found",
		mdMsg: `
# Module not found!

No configured repository contains a module matching the identifier.

## How identifiers are resolved
- Top-level ids (` + "`a/b`" + `) are tried in every repository, built-in first.
- Relative ids (` + "`./x`, `../x`" + `) are tried only in the repository that
  contains the requiring module.
- Each id is tried as ` + "`id`, `id.js`, `id/index.js`" + `, in that order.
- Ids that would climb above the repository root are never found.

## Things you can try:
- List the repositories that are searched:
~~~
$ modrepo repo list
~~~
- Add the repository that holds the module:
~~~
$ modrepo repo add /path/to/modules
~~~
- Re-run with ` + "`--verbose`" + ` to see why each candidate was rejected.`,
		extLinks: []HttpLink{"https://nodejs.org/api/modules.html#all-together"},
	}

	repositoryNotFoundIssue = &Issue{
		id:   RepositoryNotFoundId,
		name: "repository-not-found",
		mdMsg: `
# Repository not found!

The repository location does not exist.

## Things you can try:
- Check the path for typos; repository paths must be absolute.
- For archives, check that the file before ` + "`!`" + ` exists:
~~~
archive:/abs/path/app.zip!lib
~~~
- Remove stale entries from your configuration:
~~~
$ modrepo repo remove <locator>
~~~`,
	}

	notAnArchiveIssue = &Issue{
		id:   NotAnArchiveId,
		name: "not-an-archive",
		mdMsg: `
# Not a zip archive!

The file named by an ` + "`archive:`" + ` locator could not be opened as a zip archive.

## Things you can try:
- Verify the file is a valid zip:
~~~
$ unzip -l /path/to/app.zip
~~~
- If the location is a directory, use its plain path instead of an
  ` + "`archive:`" + ` locator.`,
	}

	notADirectoryIssue = &Issue{
		id:   NotADirectoryId,
		name: "not-a-directory",
		mdMsg: `
# Not a directory!

A plain repository location must be a directory.

## Things you can try:
- Point the repository at the directory that contains your modules.
- To use a zip file as a repository, use an archive locator:
~~~
$ modrepo repo add 'archive:/path/to/app.zip!'
~~~`,
	}

	archiveEntryNotDirectoryIssue = &Issue{
		id:   ArchiveEntryNotDirectoryId,
		name: "archive-entry-not-directory",
		mdMsg: `
# Archive entry is not a directory!

The entry after ` + "`!`" + ` in an archive locator must name a directory inside
the archive, or be empty for the archive root.

## Things you can try:
- List the archive contents to find the right entry:
~~~
$ unzip -l /path/to/app.zip
~~~
- Use the archive root:
~~~
archive:/path/to/app.zip!
~~~`,
	}

	invalidLocatorIssue = &Issue{
		id:   InvalidLocatorId,
		name: "invalid-locator",
		mdMsg: `
# Invalid module locator!

Locators are either an absolute filesystem path or an archive locator.

## Accepted forms:
~~~
/abs/path/to/dir
archive:/abs/path/to/app.zip!entry/path
~~~

## Common mistakes:
- Relative paths (` + "`./modules`" + `); use an absolute path.
- Unsupported schemes such as ` + "`https:`" + `; network repositories are not supported.
- Backslashes in the entry path; entries always use ` + "`/`" + `.`,
	}

	invalidModuleIDIssue = &Issue{
		id:   InvalidModuleIDId,
		name: "invalid-module-id",
		mdMsg: `
# Invalid module identifier!

Module identifiers are ` + "`/`" + `-separated relative paths.

## Rules:
- Must not be empty or surrounded by whitespace.
- Must not start with ` + "`/`" + `.
- Must not contain backslashes.

## Examples:
~~~
require("lodash/fp")
require("./util")
require("../shared/log.js")
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		name: "config-load-failed",
		mdMsg: `
# Failed to load configuration!

The modrepo configuration file could not be read or failed validation.

## Things you can try:
- Show where modrepo looks for its configuration:
~~~
$ modrepo config path
~~~
- Recreate a default configuration:
~~~
$ modrepo config init --force
~~~

## Example configuration:
~~~cue
builtin: "/usr/share/modrepo/builtin"
repositories: [
	"/home/me/js-modules",
	"archive:/home/me/vendor.zip!lib",
]
log: level: "info"
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id:   PermissionDeniedId,
		name: "permission-denied",
		mdMsg: `
# Permission denied!

modrepo could not read a repository or a module file.

## Things you can try:
- Check permissions on the repository directory or archive:
~~~
$ ls -la /path/to/repository
~~~
- Make sure every directory on the path is listable by your user.`,
	}

	issues = map[Id]*Issue{
		moduleNotFoundIssue.Id():           moduleNotFoundIssue,
		repositoryNotFoundIssue.Id():       repositoryNotFoundIssue,
		notAnArchiveIssue.Id():             notAnArchiveIssue,
		notADirectoryIssue.Id():            notADirectoryIssue,
		archiveEntryNotDirectoryIssue.Id(): archiveEntryNotDirectoryIssue,
		invalidLocatorIssue.Id():           invalidLocatorIssue,
		invalidModuleIDIssue.Id():          invalidModuleIDIssue,
		configLoadFailedIssue.Id():         configLoadFailedIssue,
		permissionDeniedIssue.Id():         permissionDeniedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// ByName returns the issue with the given name, or nil.
func ByName(name string) *Issue {
	for _, i := range issues {
		if i.name == name {
			return i
		}
	}
	return nil
}
