package termui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/monsterxx03/procmaps/pkg/maps"
)

var tableHeaders = []string{"Address", "Perm", "Size", "Offset", "Dev", "Inode", "Pathname"}

// TopUI is a live, refreshing view of a process's memory mappings.
type TopUI struct {
	app          *tview.Application
	table        *tview.Table
	titleView    *tview.TextView
	summaryView  *tview.TextView
	searchView   *tview.InputField
	flex         *tview.Flex
	pid          int
	interval     int
	suspended    bool
	refreshChan  chan struct{}
	searchFilter string
	lastDuration time.Duration
}

func (t *TopUI) updateHelpText(help *tview.TextView) {
	baseHelp := "[yellow]Press [white]q[green] to quit, [white]r[green] to refresh, [white]s[green] to suspend/resume, [white]/[green] to search"
	if t.searchFilter != "" {
		baseHelp += fmt.Sprintf(" [white]| [green]Current filter: [white]%q", t.searchFilter)
	} else {
		baseHelp += " [white]| [green]No active filter"
	}
	help.SetText(baseHelp)
}

func NewTopUI(pid, interval int) *TopUI {
	app := tview.NewApplication()
	table := tview.NewTable()
	table.SetBorders(false).
		SetFixed(1, 0).
		SetBorder(false)

	ui := &TopUI{
		app:      app,
		table:    table,
		pid:      pid,
		interval: interval,
	}

	ui.titleView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	return ui
}

func (t *TopUI) setHeaders() {
	for col, h := range tableHeaders {
		align := tview.AlignLeft
		if col > 0 && col < len(tableHeaders)-1 {
			align = tview.AlignCenter
		}
		t.table.SetCell(0, col, tview.NewTableCell(h).
			SetAlign(align).
			SetTextColor(tcell.ColorYellow).
			SetBackgroundColor(tcell.ColorDarkSlateGray))
	}
}

func (t *TopUI) Run() error {
	t.setHeaders()

	help := tview.NewTextView().
		SetDynamicColors(true)
	t.updateHelpText(help)

	t.summaryView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	t.searchView = tview.NewInputField().
		SetLabel("Search: ").
		SetFieldBackgroundColor(tcell.ColorDefault).
		SetChangedFunc(func(text string) {
			t.searchFilter = text
		}).
		SetDoneFunc(func(key tcell.Key) {
			if key == tcell.KeyEsc || key == tcell.KeyEnter {
				t.flex.RemoveItem(t.searchView)
				t.app.SetFocus(t.table)
				go t.app.QueueUpdateDraw(
					func() {
						t.updateHelpText(help)
					},
				)
			}
		})

	t.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.titleView, 1, 1, false).
		AddItem(t.summaryView, 2, 1, false).
		AddItem(t.table, 0, 1, true).
		AddItem(help, 1, 1, false)

	t.refreshChan = make(chan struct{})
	ticker := time.NewTicker(time.Duration(t.interval) * time.Second)
	defer ticker.Stop()

	// Initial update - direct call since the app isn't running yet.
	t.update()

	t.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if t.app.GetFocus() == t.searchView {
			switch event.Key() {
			case tcell.KeyEsc:
				t.app.SetFocus(t.table)
				return nil
			default:
				return event
			}
		}

		switch event.Rune() {
		case 'q':
			t.app.Stop()
			return nil
		case 'r':
			go t.update()
			return nil
		case 's':
			t.suspended = !t.suspended
			if t.suspended {
				t.titleView.SetText(fmt.Sprintf("%s [red](PAUSED)", t.titleView.GetText(true)))
			} else {
				t.refreshChan <- struct{}{}
			}
			return nil
		case '/':
			t.searchView.SetText(t.searchFilter)
			t.flex.AddItem(t.searchView, 1, 1, false)
			t.app.SetFocus(t.searchView)
			return nil
		}
		return event
	})

	go func() {
		for {
			select {
			case <-ticker.C:
				if !t.suspended && t.app != nil {
					t.app.QueueUpdateDraw(t.update)
				}
			case <-t.refreshChan:
				if t.app != nil {
					t.app.QueueUpdateDraw(t.update)
				}
			}
		}
	}()

	return t.app.SetRoot(t.flex, true).Run()
}

func (t *TopUI) fetchData() (maps.Maps, error) {
	start := time.Now()
	defer func() {
		t.lastDuration = time.Since(start)
	}()
	return maps.FromPid(t.pid)
}

func pathnameCell(p maps.Pathname) *tview.TableCell {
	cell := tview.NewTableCell(p.Raw)
	switch p.Kind {
	case maps.PathnameSpecial:
		cell.SetTextColor(tcell.ColorAqua)
	case maps.PathnameDeleted:
		cell.SetTextColor(tcell.ColorRed)
	case maps.PathnameAbsent:
		cell.SetText("(anonymous)").SetTextColor(tcell.ColorGray)
	}
	return cell
}

func (t *TopUI) update() {
	ms, err := t.fetchData()
	if err != nil {
		t.app.Stop()
		fmt.Fprintf(os.Stderr, "failed to read maps: %v\n", err)
		return
	}

	t.table.Clear()
	t.setHeaders()

	row := 1
	for _, m := range ms {
		// Apply search filter on the raw pathname.
		if t.searchFilter != "" && !strings.Contains(strings.ToLower(m.Pathname.Raw), strings.ToLower(t.searchFilter)) {
			continue
		}
		t.table.SetCell(row, 0, tview.NewTableCell(m.AddressRange.String()))
		t.table.SetCell(row, 1, tview.NewTableCell(m.Permissions.String()).SetAlign(tview.AlignCenter))
		t.table.SetCell(row, 2, tview.NewTableCell(maps.HumanSize(m.AddressRange.Size())).SetAlign(tview.AlignRight))
		t.table.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf("%x", m.Offset)).SetAlign(tview.AlignRight))
		t.table.SetCell(row, 4, tview.NewTableCell(m.Device.String()).SetAlign(tview.AlignCenter))
		t.table.SetCell(row, 5, tview.NewTableCell(fmt.Sprintf("%d", m.Inode)).SetAlign(tview.AlignRight))
		t.table.SetCell(row, 6, pathnameCell(m.Pathname))
		row++
	}

	if t.app != nil {
		title := fmt.Sprintf("[yellow]PID: %d [white]| [green]Regions: %d [white]| [purple]Refresh: %ds [white]| [orange]Update: %v",
			t.pid, len(ms), t.interval, t.lastDuration.Round(time.Microsecond))
		if t.titleView != nil {
			t.titleView.SetText(title)
		}

		if t.summaryView != nil {
			sum := ms.Summary()
			t.summaryView.SetText(fmt.Sprintf(
				"[yellow]Mapped: [white]%s | Anonymous: %s\n"+
					"[yellow]Regions: [white]file:%d anon:%d special:%d deleted:%d",
				maps.HumanSize(sum.TotalSize),
				maps.HumanSize(sum.AnonymousSize),
				sum.Backed, sum.Anonymous, sum.Special, sum.Deleted,
			))
		}
	}
}
