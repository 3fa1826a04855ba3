package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/monsterxx03/procmaps/pkg/api"
	"github.com/monsterxx03/procmaps/pkg/maps"
	"github.com/monsterxx03/procmaps/pkg/termui"
)

var (
	gitVer  string
	buildAt string
)

func loadMaps(pid int, file string, loose bool) (maps.Maps, error) {
	p := maps.Parser{LooseAddressOrder: loose}
	if file != "" {
		return p.FromPath(file)
	}
	if pid <= 0 {
		return nil, fmt.Errorf("either --pid or --file is required")
	}
	return p.FromPid(pid)
}

func newDumpTable() *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetColumnSeparator("")
	return table
}

func main() {
	var pid int
	var refresh int
	var port int
	var file string
	var loose bool
	pidFlag := &cli.IntFlag{
		Name:        "pid",
		Usage:       "target process id",
		Destination: &pid,
	}
	fileFlag := &cli.StringFlag{
		Name:        "file",
		Usage:       "parse a saved maps listing instead of a live process",
		Destination: &file,
	}
	looseFlag := &cli.BoolFlag{
		Name:        "loose",
		Usage:       "don't require end address > begin address",
		Destination: &loose,
	}
	refreshFlag := &cli.IntFlag{
		Name:        "refresh",
		Usage:       "refresh interval in seconds",
		Value:       2,
		Destination: &refresh,
	}
	app := &cli.App{
		Name:  "procmaps",
		Usage: "inspect process memory mappings from /proc/<pid>/maps",
		Commands: []*cli.Command{
			{
				Name:    "dump",
				Aliases: []string{"d"},
				Usage:   "Dump mappings of a process",
				Flags: []cli.Flag{pidFlag, fileFlag, looseFlag,
					&cli.BoolFlag{Name: "json", Usage: "JSON output"}},
				Action: func(c *cli.Context) error {
					ms, err := loadMaps(pid, file, loose)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						enc := json.NewEncoder(os.Stdout)
						enc.SetIndent("", "  ")
						return enc.Encode(ms)
					}
					table := newDumpTable()
					table.SetHeader([]string{"ADDRESS", "PERM", "SIZE", "OFFSET", "DEV", "INODE", "PATHNAME"})
					for _, m := range ms {
						table.Append([]string{
							m.AddressRange.String(),
							m.Permissions.String(),
							maps.HumanSize(m.AddressRange.Size()),
							fmt.Sprintf("%x", m.Offset),
							m.Device.String(),
							fmt.Sprintf("%d", m.Inode),
							m.Pathname.Raw,
						})
					}
					table.Render()
					return nil
				},
			},
			{
				Name:    "summary",
				Aliases: []string{"s"},
				Usage:   "Dump mapping summary of a process",
				Flags:   []cli.Flag{pidFlag, fileFlag, looseFlag},
				Action: func(c *cli.Context) error {
					ms, err := loadMaps(pid, file, loose)
					if err != nil {
						return err
					}
					sum := ms.Summary()
					fmt.Printf("regions: %d (file-backed: %d, anonymous: %d, special: %d, deleted: %d)\n",
						sum.Regions, sum.Backed, sum.Anonymous, sum.Special, sum.Deleted)
					fmt.Printf("mapped: %s (anonymous: %s)\n",
						maps.HumanSize(sum.TotalSize), maps.HumanSize(sum.AnonymousSize))

					largest := make(maps.Maps, len(ms))
					copy(largest, ms)
					sort.SliceStable(largest, func(i, j int) bool {
						return largest[i].AddressRange.Size() > largest[j].AddressRange.Size()
					})
					if len(largest) > 5 {
						largest = largest[:5]
					}
					fmt.Print("\nlargest regions:\n\n")
					table := newDumpTable()
					for _, m := range largest {
						table.Append([]string{
							m.AddressRange.String(),
							maps.HumanSize(m.AddressRange.Size()),
							m.Pathname.Raw,
						})
					}
					table.Render()
					return nil
				},
			},
			{
				Name:    "top",
				Aliases: []string{"t"},
				Usage:   "top like interface of process mappings",
				Flags:   []cli.Flag{pidFlag, refreshFlag},
				Action: func(c *cli.Context) error {
					if pid <= 0 {
						return fmt.Errorf("--pid is required")
					}
					return termui.NewTopUI(pid, refresh).Run()
				},
			},
			{
				Name:  "serve",
				Usage: "Serve mappings over a JSON HTTP API",
				Flags: []cli.Flag{&cli.IntFlag{
					Name:        "port",
					Value:       8080,
					Destination: &port,
				}},
				Action: func(c *cli.Context) error {
					return api.NewServer(port).Start()
				},
			},
			{
				Name:  "mcp",
				Usage: "Serve mappings as MCP tools over stdio",
				Action: func(c *cli.Context) error {
					return api.ServeMCP(gitVer)
				},
			},
			{
				Name:    "version",
				Aliases: []string{"v"},
				Usage:   "print build version",
				Action: func(c *cli.Context) error {
					println("Git: " + gitVer)
					println("Build at: " + buildAt)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
