package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"hackasm/pkg/asm"
	"hackasm/pkg/cpu"
	"hackasm/pkg/utils"
)

type Game struct {
	vm            *cpu.CPU
	screenImg     *ebiten.Image // reused 512×256 framebuffer
	keys          keyState
	stepsPerFrame int
}

// specialKeys maps host keys to the Hack codes of non-printable keys.
var specialKeys = []struct {
	key  ebiten.Key
	code uint16
}{
	{ebiten.KeyEnter, cpu.KeyNewline},
	{ebiten.KeyBackspace, cpu.KeyBackspace},
	{ebiten.KeyArrowLeft, cpu.KeyLeft},
	{ebiten.KeyArrowUp, cpu.KeyUp},
	{ebiten.KeyArrowRight, cpu.KeyRight},
	{ebiten.KeyArrowDown, cpu.KeyDown},
	{ebiten.KeyHome, cpu.KeyHome},
	{ebiten.KeyEnd, cpu.KeyEnd},
	{ebiten.KeyPageUp, cpu.KeyPageUp},
	{ebiten.KeyPageDown, cpu.KeyPageDown},
	{ebiten.KeyInsert, cpu.KeyInsert},
	{ebiten.KeyDelete, cpu.KeyDelete},
	{ebiten.KeyEscape, cpu.KeyEscape},
	{ebiten.KeyF1, cpu.KeyFunction(1)},
	{ebiten.KeyF2, cpu.KeyFunction(2)},
	{ebiten.KeyF3, cpu.KeyFunction(3)},
	{ebiten.KeyF4, cpu.KeyFunction(4)},
	{ebiten.KeyF5, cpu.KeyFunction(5)},
	{ebiten.KeyF6, cpu.KeyFunction(6)},
	{ebiten.KeyF7, cpu.KeyFunction(7)},
	{ebiten.KeyF8, cpu.KeyFunction(8)},
	{ebiten.KeyF9, cpu.KeyFunction(9)},
	{ebiten.KeyF10, cpu.KeyFunction(10)},
	{ebiten.KeyF11, cpu.KeyFunction(11)},
	{ebiten.KeyF12, cpu.KeyFunction(12)},
}

// keyState turns host input events into the level-triggered KBD register:
// the code of the key currently held down, or 0.
type keyState struct {
	char uint16
}

func (k *keyState) update(special uint16, chars []rune, anyPressed bool) uint16 {
	if special != cpu.KeyNone {
		k.char = cpu.KeyNone
		return special
	}
	if len(chars) > 0 {
		k.char = cpu.KeyChar(chars[len(chars)-1])
	}
	if !anyPressed {
		k.char = cpu.KeyNone
	}
	return k.char
}

func pressedSpecial() uint16 {
	for _, s := range specialKeys {
		if ebiten.IsKeyPressed(s.key) {
			return s.code
		}
	}
	return cpu.KeyNone
}

func (g *Game) Update() error {
	held := len(inpututil.AppendPressedKeys(nil)) > 0
	g.vm.SetKey(g.keys.update(pressedSpecial(), ebiten.AppendInputChars(nil), held))
	g.runFrame()
	return nil
}

// runFrame executes up to stepsPerFrame instructions, stopping early once
// the program halts.
func (g *Game) runFrame() {
	for i := 0; i < g.stepsPerFrame; i++ {
		if g.vm.Halted {
			break
		}
		g.vm.Step()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screenImg == nil {
		g.screenImg = ebiten.NewImage(cpu.ScreenWidth, cpu.ScreenHeight)
	}
	g.screenImg.WritePixels(g.vm.GetFramebufferRGBA())
	screen.DrawImage(g.screenImg, nil)

	if g.vm.Halted {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("halted at PC=%d after %d cycles", g.vm.PC, g.vm.Cycles), 4, cpu.ScreenHeight-16)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cpu.ScreenWidth, cpu.ScreenHeight
}

// loadMachine builds a CPU running the program at path, assembling it first
// when it is a .asm source.
func loadMachine(path string) (*cpu.CPU, error) {
	fullPath, _, err := utils.GetPathInfo(path)
	if err != nil {
		return nil, err
	}

	var lines []string
	switch strings.ToLower(filepath.Ext(fullPath)) {
	case ".hack":
		lines, err = utils.ReadLines(fullPath)
		if err != nil {
			return nil, err
		}
	default:
		source, err := utils.ReadSource(fullPath)
		if err != nil {
			return nil, err
		}
		lines, _, err = asm.Assemble(source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	vm := cpu.NewCPU()
	if err := vm.LoadProgram(lines); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vm, nil
}

func main() {
	steps := flag.Int("steps", 20000, "instructions executed per frame")
	scale := flag.Int("scale", 2, "window scale factor")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: desktop [-steps N] [-scale K] FILE.asm|FILE.hack")
	}

	vm, err := loadMachine(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to load program: %v", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cpu.ScreenWidth*(*scale), cpu.ScreenHeight*(*scale))
	ebiten.SetWindowTitle("Hack - " + filepath.Base(flag.Arg(0)))

	game := &Game{vm: vm, stepsPerFrame: *steps}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
