// Command hexq serves and runs hex-grid queries.
//
// Usage:
//
//	hexq serve --config configs/hexq.yaml
//	hexq gen --radius 12 --seed 42 --save --name coast
//	hexq path --from 0,0 --to 5,-3 --map <id>
//	hexq fov --origin 0,0 --radius 6
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/gravitas-games/hexext/field"
	"github.com/gravitas-games/hexext/grid"
	"github.com/gravitas-games/hexext/hex"
	"github.com/gravitas-games/hexext/internal/config"
	"github.com/gravitas-games/hexext/internal/server"
	"github.com/gravitas-games/hexext/internal/store"
	"github.com/gravitas-games/hexext/path"
)

// CLI defines the command-line interface.
type CLI struct {
	Serve  ServeCmd  `cmd:"" help:"Start the WebSocket query server."`
	Gen    GenCmd    `cmd:"" help:"Generate a terrain map."`
	Path   PathCmd   `cmd:"" help:"Find the cheapest path between two cells."`
	Region RegionCmd `cmd:"" help:"Show cells reachable within a step radius."`
	FOV    FOVCmd    `cmd:"" name:"fov" help:"Show cells visible from an origin."`
	Maps   MapsCmd   `cmd:"" help:"List or delete stored maps."`

	Config string `short:"c" help:"Path to config file." type:"path" env:"CONFIG_PATH"`
	Map    string `help:"Stored map ID to query instead of generating one."`
}

func (cli *CLI) loadConfig() (*config.Config, error) {
	if cli.Config == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	log.Printf("Configuration loaded from %s", cli.Config)
	return cfg, nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.Store.Path == "" {
		return nil, fmt.Errorf("no store path configured")
	}
	return store.Open(cfg.Store.Path)
}

// loadWorld returns the stored map named by --map, or a map generated from
// the config's map section.
func (cli *CLI) loadWorld(ctx context.Context, cfg *config.Config) (*grid.Map, error) {
	if cli.Map == "" {
		return grid.Generate(cfg.Map.GenConfig()), nil
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.LoadMap(ctx, cli.Map)
}

// ServeCmd starts the server.
type ServeCmd struct {
	Port int `help:"Override the configured port."`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if cli.Map != "" {
		cfg.Map.ID = cli.Map
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := srv.Start(addr); err != nil {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)
	}

	if err := srv.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped")
	return nil
}

// GenCmd generates and prints a map, optionally saving it.
type GenCmd struct {
	Radius int    `help:"Map radius (defaults to the configured radius)."`
	Seed   int64  `help:"Noise seed; 0 picks a random one."`
	Save   bool   `help:"Save the map to the configured store."`
	Name   string `help:"Name to save the map under." default:"untitled"`
}

func (c *GenCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	gc := cfg.Map.GenConfig()
	if c.Radius > 0 {
		gc.Radius = c.Radius
	}
	if c.Seed != 0 {
		gc.Seed = c.Seed
	}

	m := grid.Generate(gc)
	fmt.Print(m.Render(nil))
	fmt.Println(m)
	counts := m.TerrainCounts()
	for t := grid.Plains; t <= grid.Water; t++ {
		fmt.Printf("  %-8s %d\n", t, counts[t])
	}

	if !c.Save {
		return nil
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	id, err := st.SaveMap(context.Background(), c.Name, m)
	if err != nil {
		return err
	}
	fmt.Printf("saved as %s\n", id)
	return nil
}

// PathCmd runs A* on a map and draws the result.
type PathCmd struct {
	From string `required:"" help:"Start cell as q,r."`
	To   string `required:"" help:"Goal cell as q,r."`
}

func (c *PathCmd) Run(cli *CLI) error {
	start, err := hex.ParseAxial(c.From)
	if err != nil {
		return err
	}
	goal, err := hex.ParseAxial(c.To)
	if err != nil {
		return err
	}
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	m, err := cli.loadWorld(context.Background(), cfg)
	if err != nil {
		return err
	}

	res, err := path.Find(start, goal, m, path.WithMaxExpansions(cfg.Query.MaxExpansions))
	if err != nil {
		return err
	}
	overlay := make(map[hex.Axial]byte, len(res.Path))
	for _, a := range res.Path {
		overlay[a] = '*'
	}
	overlay[start] = 'S'
	overlay[goal] = 'G'
	fmt.Print(m.Render(overlay))
	fmt.Printf("steps=%d cost=%d expanded=%d\n", len(res.Path)-1, res.Cost, res.Expanded)
	return nil
}

// RegionCmd draws the step-bounded reachable region around an origin.
type RegionCmd struct {
	Origin string `required:"" help:"Origin cell as q,r."`
	Radius int    `default:"4" help:"Step radius."`
	Budget int    `help:"Use a movement-cost budget instead of a step radius."`
}

func (c *RegionCmd) Run(cli *CLI) error {
	return runRegion(cli, c.Origin, func(m *grid.Map, origin hex.Axial) (field.Region, error) {
		if c.Budget > 0 {
			return field.MovementRange(origin, c.Budget, m)
		}
		return field.Reachable(origin, c.Radius, m)
	})
}

// FOVCmd draws the field of view around an origin.
type FOVCmd struct {
	Origin string `required:"" help:"Origin cell as q,r."`
	Radius int    `default:"6" help:"View radius."`
}

func (c *FOVCmd) Run(cli *CLI) error {
	return runRegion(cli, c.Origin, func(m *grid.Map, origin hex.Axial) (field.Region, error) {
		return field.Visible(origin, c.Radius, m)
	})
}

func runRegion(cli *CLI, originText string, compute func(*grid.Map, hex.Axial) (field.Region, error)) error {
	origin, err := hex.ParseAxial(originText)
	if err != nil {
		return err
	}
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	m, err := cli.loadWorld(context.Background(), cfg)
	if err != nil {
		return err
	}
	reg, err := compute(m, origin)
	if err != nil {
		return err
	}
	overlay := make(map[hex.Axial]byte, reg.Len())
	for _, a := range reg.Cells() {
		overlay[a] = 'o'
	}
	overlay[origin] = '@'
	fmt.Print(m.Render(overlay))
	fmt.Printf("cells=%d\n", reg.Len())
	return nil
}

// MapsCmd lists stored maps.
type MapsCmd struct {
	Delete string `help:"Delete the map with this ID."`
}

func (c *MapsCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	if c.Delete != "" {
		if err := st.DeleteMap(ctx, c.Delete); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", c.Delete)
		return nil
	}

	maps, err := st.ListMaps(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tRADIUS\tSEED\tCREATED")
	for _, mi := range maps {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", mi.ID, mi.Name, mi.Radius, mi.Seed, mi.Created().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("hexq"),
		kong.Description("Hex-grid pathfinding, reachability and field-of-view queries"),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
