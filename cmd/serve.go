package cmd

import (
	"log"
	"net/http"
	"os"

	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/spf13/cobra"

	"palbot/graph"
)

const defaultPort = "5000"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the GraphQL server",
	Long:  `Starts a read-only GraphQL server over the tray setup and the run journal`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	layout, err := loadLayout()
	if err != nil {
		return err
	}
	resolver := &graph.Resolver{Layout: layout}
	journal, err := openJournal()
	if err != nil {
		return err
	}
	if journal != nil {
		defer journal.Close()
		resolver.Runs = journal
	}

	srv := handler.NewDefaultServer(graph.NewExecutableSchema(graph.Config{Resolvers: resolver}))

	mux := http.NewServeMux()
	mux.Handle("/", playground.Handler("GraphQL playground", "/query"))
	mux.Handle("/query", srv)

	log.Printf("connect to http://localhost:%s/ for GraphQL playground", port)
	return http.ListenAndServe(":"+port, mux)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
