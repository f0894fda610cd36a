package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/iancoleman/strcase"
	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-appsync-go/internal/config"
)

// validProjectName matches directory-safe project names.
var validProjectName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [project-name]",
		Short: "Create a new wetwire-appsync project",
		Long: `Init creates a starter project with a project file and a GraphQL schema.

The project is created in a subdirectory with the given name.

Examples:
    wetwire-appsync init notes-api     # Creates ./notes-api/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), ".", args[0])
		},
	}
}

const starterSchema = `type Note {
  id: ID!
  content: String
}

type Query {
  getNotes: [Note]
}

type Mutation {
  addNote(id: ID!, content: String): Note
}
`

const starterProject = `stack:
  name: %[1]s
  description: %[2]s AppSync API
api:
  name: %[2]s
  schemaFile: schema.graphql
  authorization:
    default:
      type: API_KEY
dataSources:
  - id: Notes
    type: dynamodb
    tableName: %[2]s-notes
resolvers:
  - type: Query
    field: getNotes
    dataSource: Notes
    request: {builtin: dynamoDbScanTable}
    response: {builtin: dynamoDbResultList}
  - type: Mutation
    field: addNote
    dataSource: Notes
    request: {builtin: dynamoDbPutItem, key: id, arg: id}
    response: {builtin: dynamoDbResultItem}
outputs:
  - name: GraphQLUrl
    value: graphqlUrl
  - name: ApiKey
    value: apiKey
`

const starterGitignore = `# Build output
template.json
template.yaml

# IDE
.idea/
.vscode/

# OS
.DS_Store
`

// runInit creates a new project in {workspaceDir}/{projectName}/.
func runInit(w io.Writer, workspaceDir, projectName string) error {
	if !validProjectName.MatchString(projectName) {
		return fmt.Errorf("invalid project name %q: must start with a letter and contain only letters, numbers, hyphens, or underscores", projectName)
	}

	projectPath := filepath.Join(workspaceDir, projectName)
	if _, err := os.Stat(projectPath); err == nil {
		return fmt.Errorf("project already exists: %s", projectPath)
	}
	if err := os.MkdirAll(projectPath, 0755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}

	files := []struct {
		name    string
		content string
	}{
		{config.DefaultFile, fmt.Sprintf(starterProject, strcase.ToCamel(projectName), projectName)},
		{"schema.graphql", starterSchema},
		{".gitignore", starterGitignore},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(projectPath, f.name), []byte(f.content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	fmt.Fprintf(w, "Created project: %s/\n", projectPath)
	fmt.Fprintf(w, "  ├── %s\n", config.DefaultFile)
	fmt.Fprintf(w, "  ├── schema.graphql\n")
	fmt.Fprintf(w, "  └── .gitignore\n")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintf(w, "  cd %s && wetwire-appsync build\n", projectName)
	fmt.Fprintln(w)

	return nil
}
