package app

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/pulse/internal/bodymetrics"
	"github.com/lowaak/pulse/internal/catalog"
	"github.com/lowaak/pulse/internal/go_func_utils"
	"github.com/lowaak/pulse/internal/nav"
	"github.com/lowaak/pulse/internal/session"
)

// Page names for tview.Pages
const (
	pageLogin    = "login"
	pageMain     = "main"
	pageTraining = "training"
	pageSession  = "session"
	pageList     = "list"

	pageSettings = "settings"
)

// CursesView implements View using tview
type CursesView struct {
	logger       *log.Logger
	app          *tview.Application
	model        *Model
	currentRoute nav.Route
	home         HomeState

	// Closed once the event loop has exited or Stop was called
	stopped  chan struct{}
	stopOnce sync.Once

	// Root container that holds all pages
	pages    *tview.Pages
	logView  *tview.TextView
	helpBar  *tview.TextView
	mainFlex *tview.Flex

	// Login screen
	loginFlex  *tview.Flex
	loginForm  *tview.Form
	loginError *tview.TextView

	// Main screen: header with tabs, one inner page per tab plus settings
	mainScreen    *tview.Flex
	header        *tview.TextView
	homePages     *tview.Pages
	searchInput   *tview.InputField
	searchResults *tview.List
	quickText     *tview.TextView
	recommendList *tview.List
	tabLists      map[catalog.TopTab]*tview.List
	recommendFlex *tview.Flex

	// Settings
	settingsForm  *tview.Form
	heightInput   *tview.InputField
	weightInput   *tview.InputField
	ageInput      *tview.InputField
	sexDropDown   *tview.DropDown
	metricsText   *tview.TextView
	settingsFlex  *tview.Flex
	settingsReady bool

	// Workout detail
	trainingText *tview.TextView

	// Session
	sessionText *tview.TextView

	// Moves, Live and category lists
	listFlex   *tview.Flex
	listTitle  *tview.TextView
	itemList   *tview.List
	listSource ListSource

	themedBoxes []*tview.Box
	textViews   []*tview.TextView
	lists       []*tview.List
	forms       []*tview.Form
}

func NewCursesView(logger *log.Logger, app *tview.Application, model *Model) *CursesView {
	return &CursesView{
		logger:   logger,
		app:      app,
		model:    model,
		tabLists: make(map[catalog.TopTab]*tview.List),
		stopped:  make(chan struct{}),
	}
}

// Initialize sets up the tview widgets
func (ui *CursesView) Initialize(controller *Controller) {
	// Don't use SetChangedFunc with app.Draw() here; BaseView queues a draw with every update
	ui.logView = ui.newTextView().SetScrollable(false)
	ui.logView.SetBorder(true).SetTitle(" Log ")

	ui.helpBar = ui.newTextView().SetTextAlign(tview.AlignCenter)

	ui.pages = tview.NewPages()

	ui.initLoginScreen(controller)
	ui.initMainScreen(controller)
	ui.initTrainingScreen()
	ui.initSessionScreen()
	ui.initListScreen(controller)

	ui.pages.AddPage(pageLogin, ui.loginFlex, true, true)
	ui.pages.AddPage(pageMain, ui.mainScreen, true, false)
	ui.pages.AddPage(pageTraining, ui.trainingText, true, false)
	ui.pages.AddPage(pageSession, ui.sessionText, true, false)
	ui.pages.AddPage(pageList, ui.listFlex, true, false)

	ui.mainFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.pages, 0, 1, true).
		AddItem(ui.logView, 6, 0, false).
		AddItem(ui.helpBar, 1, 0, false)

	ui.themedBoxes = append(ui.themedBoxes, ui.pages.Box, ui.mainFlex.Box, ui.loginFlex.Box,
		ui.mainScreen.Box, ui.homePages.Box, ui.recommendFlex.Box, ui.settingsFlex.Box, ui.listFlex.Box)
}

func (ui *CursesView) newTextView() *tview.TextView {
	tv := tview.NewTextView().SetDynamicColors(true)
	ui.textViews = append(ui.textViews, tv)
	return tv
}

func (ui *CursesView) newList(showSecondary bool) *tview.List {
	l := tview.NewList().ShowSecondaryText(showSecondary)
	ui.lists = append(ui.lists, l)
	return l
}

// initLoginScreen sets up the email/password form
func (ui *CursesView) initLoginScreen(controller *Controller) {
	title := ui.newTextView().SetTextAlign(tview.AlignCenter)
	title.SetText("\n[::b]Pulse[::-]\n[gray]Sign in to start training[-]")

	ui.loginError = ui.newTextView().SetTextAlign(tview.AlignCenter)

	ui.loginForm = tview.NewForm().
		AddInputField("Email", "", 32, nil, func(string) { controller.ClearLoginError() }).
		AddPasswordField("Password", "", 32, '*', func(string) { controller.ClearLoginError() })
	ui.loginForm.AddButton("Login", func() {
		email := ui.loginForm.GetFormItemByLabel("Email").(*tview.InputField).GetText()
		password := ui.loginForm.GetFormItemByLabel("Password").(*tview.InputField).GetText()
		if controller.Login(email, password) {
			ui.loginForm.GetFormItemByLabel("Password").(*tview.InputField).SetText("")
		}
	})
	ui.loginForm.SetBorder(true).SetTitle(" Login ")
	ui.forms = append(ui.forms, ui.loginForm)

	ui.loginFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(title, 4, 0, false).
		AddItem(ui.loginForm, 9, 0, true).
		AddItem(ui.loginError, 2, 0, false).
		AddItem(nil, 0, 1, false)
}

// initMainScreen sets up the tab header, the home tabs and settings
func (ui *CursesView) initMainScreen(controller *Controller) {
	ui.header = ui.newTextView().SetTextAlign(tview.AlignCenter)

	// Recommend tab: search, quick features, recommended cards
	ui.searchResults = ui.newList(true).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			ui.logger.Printf("UI: Search result selected: index=%d, title=%s", index, mainText)
			controller.OnSearchPick(index)
		})
	ui.searchResults.SetBorder(true).SetTitle(" Results ")

	ui.searchInput = tview.NewInputField().
		SetLabel("Search: ").
		SetPlaceholder("Courses, plans, routes...").
		SetChangedFunc(func(text string) {
			controller.SetSearchQuery(text)
		})
	ui.searchInput.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && ui.searchResults.GetItemCount() > 0 {
			ui.app.SetFocus(ui.searchResults)
		}
	})

	ui.quickText = ui.newTextView()
	var quick []string
	for _, q := range catalog.AllQuickFeatures {
		quick = append(quick, fmt.Sprintf("[yellow]%c[-] %s", q.KeyBinding, q.Label))
	}
	ui.quickText.SetText(strings.Join(quick, "   "))
	ui.quickText.SetBorder(true).SetTitle(" Quick Access ")

	ui.recommendList = ui.newList(true).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			if index < 0 || index >= len(catalog.Recommended) {
				return
			}
			controller.OpenWorkout(catalog.Recommended[index])
		})
	for _, w := range catalog.Recommended {
		ui.recommendList.AddItem(cardTitle(w), catalog.CardSubtitle(w), 0, nil)
	}
	ui.recommendList.SetBorder(true).SetTitle(" Recommended for You ")

	ui.recommendFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.searchInput, 1, 0, false).
		AddItem(ui.searchResults, 0, 1, false).
		AddItem(ui.quickText, 3, 0, false).
		AddItem(ui.recommendList, 0, 2, true)

	ui.homePages = tview.NewPages()
	ui.homePages.AddPage(catalog.TopTabRecommend.Label(), ui.recommendFlex, true, true)

	ui.addTabList(controller, catalog.TopTabCourses, catalog.Courses, ListCourses, func(t string) string {
		return catalog.CardSubtitle(catalog.CourseWorkout(t))
	})
	ui.addTabList(controller, catalog.TopTabPlans, catalog.Plans, ListPlans, func(t string) string {
		return catalog.CardSubtitle(catalog.PlanWorkout(t))
	})
	ui.addTabList(controller, catalog.TopTabRoutes, catalog.Routes, ListRoutes, func(string) string {
		return "Stopwatch"
	})

	ui.initSettings(controller)
	ui.homePages.AddPage(pageSettings, ui.settingsFlex, true, false)

	ui.mainScreen = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.header, 2, 0, false).
		AddItem(ui.homePages, 0, 1, true)
}

func (ui *CursesView) addTabList(controller *Controller, tab catalog.TopTab, titles []string, source ListSource, subtitle func(string) string) {
	list := ui.newList(true).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			ui.logger.Printf("UI: %s item selected: %s", tab.Label(), mainText)
			controller.OnListItemSelected(source, mainText)
		})
	for _, t := range titles {
		list.AddItem(t, subtitle(t), 0, nil)
	}
	list.SetBorder(true).SetTitle(fmt.Sprintf(" %s ", tab.Label()))
	ui.tabLists[tab] = list
	ui.homePages.AddPage(tab.Label(), list, true, false)
}

// initSettings sets up preferences, the body-metric form and logout
func (ui *CursesView) initSettings(controller *Controller) {
	settings := ui.model.GetSettings()

	intensity := 1
	for i, level := range catalog.Intensities {
		if level == settings.Intensity {
			intensity = i
		}
	}

	ui.settingsForm = tview.NewForm().
		AddCheckbox("Dark mode", settings.DarkMode, func(checked bool) {
			controller.SetDarkMode(checked)
		}).
		AddDropDown("Intensity", catalog.Intensities, intensity, func(option string, index int) {
			controller.SetIntensity(option)
		}).
		AddCheckbox("Countdown sound", settings.CountdownSound, func(checked bool) {
			controller.SetCountdownSound(checked)
		}).
		AddCheckbox("Vibration", settings.Vibration, func(checked bool) {
			controller.SetVibration(checked)
		})

	onMetricsChanged := func(string) {
		if ui.settingsReady {
			controller.UpdateBodyMetrics(ui.readBodyMetrics())
		}
	}
	ui.heightInput = tview.NewInputField().SetLabel("Height (cm)").SetFieldWidth(8).SetChangedFunc(onMetricsChanged)
	ui.weightInput = tview.NewInputField().SetLabel("Weight (kg)").SetFieldWidth(8).SetChangedFunc(onMetricsChanged)
	ui.ageInput = tview.NewInputField().SetLabel("Age").SetFieldWidth(8).SetChangedFunc(onMetricsChanged)
	ui.sexDropDown = tview.NewDropDown().
		SetLabel("Sex").
		SetOptions([]string{bodymetrics.SexMale.String(), bodymetrics.SexFemale.String()}, func(string, int) {
			onMetricsChanged("")
		}).
		SetCurrentOption(0)

	ui.settingsForm.
		AddFormItem(ui.heightInput).
		AddFormItem(ui.weightInput).
		AddFormItem(ui.ageInput).
		AddFormItem(ui.sexDropDown).
		AddButton("Logout", func() {
			controller.Logout()
		})
	ui.settingsForm.SetBorder(true).SetTitle(" Settings ")
	ui.forms = append(ui.forms, ui.settingsForm)

	ui.metricsText = ui.newTextView()
	ui.metricsText.SetBorder(true).SetTitle(" Body Metrics ")

	about := ui.newTextView()
	about.SetText("Pulse\n[gray]Sample workouts only. Nothing is stored or sent anywhere.[-]")
	about.SetBorder(true).SetTitle(" About ")

	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.metricsText, 0, 1, false).
		AddItem(about, 4, 0, false)

	ui.settingsFlex = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.settingsForm, 0, 1, true).
		AddItem(right, 0, 1, false)

	ui.settingsReady = true
}

func (ui *CursesView) readBodyMetrics() bodymetrics.Input {
	sex := bodymetrics.SexMale
	if idx, _ := ui.sexDropDown.GetCurrentOption(); idx == 1 {
		sex = bodymetrics.SexFemale
	}
	return bodymetrics.Input{
		HeightCm: ui.heightInput.GetText(),
		WeightKg: ui.weightInput.GetText(),
		Age:      ui.ageInput.GetText(),
		Sex:      sex,
	}
}

func (ui *CursesView) initTrainingScreen() {
	ui.trainingText = ui.newTextView()
	ui.trainingText.SetBorder(true).SetTitle(" Workout ")
}

func (ui *CursesView) initSessionScreen() {
	ui.sessionText = ui.newTextView().SetTextAlign(tview.AlignCenter)
	ui.sessionText.SetBorder(true).SetTitle(" Training ")
}

func (ui *CursesView) initListScreen(controller *Controller) {
	ui.listTitle = ui.newTextView().SetTextAlign(tview.AlignCenter)
	ui.itemList = ui.newList(false).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			controller.OnListItemSelected(ui.listSource, mainText)
		})
	ui.itemList.SetBorder(true)

	ui.listFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.listTitle, 2, 0, false).
		AddItem(ui.itemList, 0, 1, true)
}

// ShowRoute switches to the page of the given route and fills in its content
func (ui *CursesView) ShowRoute(route nav.Route) {
	ui.currentRoute = route

	switch route.Kind {
	case nav.RouteLogin:
		ui.pages.SwitchToPage(pageLogin)
	case nav.RouteMain:
		ui.pages.SwitchToPage(pageMain)
	case nav.RouteTraining:
		ui.setTrainingDetails(route)
		ui.pages.SwitchToPage(pageTraining)
	case nav.RouteSession:
		ui.pages.SwitchToPage(pageSession)
	case nav.RouteMoves:
		ui.setItemList("Moves", catalog.Moves, ListMoves)
		ui.pages.SwitchToPage(pageList)
	case nav.RouteLive:
		ui.setItemList("Live", catalog.Live, ListLive)
		ui.pages.SwitchToPage(pageList)
	case nav.RouteCategory:
		ui.setItemList(route.Name, catalog.CategoryItems(route.Name), ListCategory)
		ui.pages.SwitchToPage(pageList)
	}

	ui.updateHelpBar()
	ui.setFocusForCurrentScreen()
}

func (ui *CursesView) setItemList(title string, items []string, source ListSource) {
	ui.listSource = source
	ui.listTitle.SetText(fmt.Sprintf("\n[::b]%s[::-]", title))
	ui.itemList.Clear()
	for _, item := range items {
		ui.itemList.AddItem(item, "", 0, nil)
	}
}

func (ui *CursesView) setTrainingDetails(route nav.Route) {
	meta := catalog.WorkoutMeta{Title: route.Title, Minutes: route.Minutes, Mode: route.Mode}

	text := "\n"
	if catalog.HasCoverImage(meta.Title) {
		text += "  [green]▶[-] [gray]Featured workout[-]\n\n"
	}
	text += fmt.Sprintf("  [yellow::b]%s[-::-]\n\n", meta.Title)
	text += fmt.Sprintf("  [gray]Mode:[-]     %s\n", meta.Mode.DisplayName())
	text += fmt.Sprintf("  [gray]Duration:[-] %s\n\n", catalog.DurationText(meta))
	text += "  [green]Press Enter to start workout[-]\n"
	ui.trainingText.SetText(text)
}

// SetSessionScreen renders the timer, its caption and the offered actions
func (ui *CursesView) SetSessionScreen(screen session.Screen) {
	text := "\n"
	text += fmt.Sprintf("[::b]%s[::-]\n", screen.Title)
	text += fmt.Sprintf("[gray]%s[-]\n\n", screen.Subtitle)
	text += fmt.Sprintf("%s\n", screen.TimeCaption)

	color := "yellow"
	switch screen.Timer.State {
	case session.StatePaused:
		color = "gray"
	case session.StateCompleted:
		color = "green"
	}
	text += fmt.Sprintf("[%s::b]%s[-::-]\n\n", color, screen.Timer.DisplayText)
	text += fmt.Sprintf("[gray]%s[-]\n\n", screen.Timer.State)

	actions := []string{fmt.Sprintf("[yellow]Space[-] %s", screen.PauseResumeLabel)}
	if screen.CanRestart {
		actions = append(actions, fmt.Sprintf("[yellow]R[-] %s", session.LabelRestart))
	}
	actions = append(actions, fmt.Sprintf("[yellow]Enter[-] %s", screen.PrimaryActionLabel))
	text += strings.Join(actions, "   ")

	ui.sessionText.SetText(text)
}

// SetLogin shows the login validation message
func (ui *CursesView) SetLogin(state LoginState) {
	if state.Error == "" {
		ui.loginError.SetText("")
		return
	}
	ui.loginError.SetText(fmt.Sprintf("[red]%s[-]", state.Error))
}

// SetHome renders the tab header and shows the selected tab
func (ui *CursesView) SetHome(home HomeState) {
	ui.home = home

	var tabs []string
	for _, info := range catalog.AllTopTabs {
		label := fmt.Sprintf("%c %s", info.KeyBinding, info.Label)
		if home.BottomTab == catalog.BottomTabHome && info.Tab == home.TopTab {
			label = fmt.Sprintf("[black:yellow] %s [-:-]", label)
		} else {
			label = fmt.Sprintf(" %s ", label)
		}
		tabs = append(tabs, label)
	}
	var bottom []string
	for _, tab := range catalog.AllBottomTabs {
		key := strings.ToLower(tab.Label()[:1])
		if tab == home.BottomTab {
			bottom = append(bottom, fmt.Sprintf("[yellow::b]%s %s[-::-]", key, tab.Label()))
		} else {
			bottom = append(bottom, fmt.Sprintf("%s %s", key, tab.Label()))
		}
	}
	ui.header.SetText(strings.Join(tabs, " ") + "\n" + strings.Join(bottom, "  |  "))

	if home.BottomTab == catalog.BottomTabSettings {
		ui.homePages.SwitchToPage(pageSettings)
	} else {
		ui.homePages.SwitchToPage(home.TopTab.Label())
	}

	if ui.currentRoute.Kind == nav.RouteMain {
		ui.updateHelpBar()
		ui.setFocusForCurrentScreen()
	}
}

// SetSearch fills the search result list. The input is only written back
// when the search was cleared; otherwise it is the source of the query.
func (ui *CursesView) SetSearch(state SearchState) {
	if state.Query == "" && ui.searchInput.GetText() != "" {
		ui.searchInput.SetText("")
	}
	ui.searchResults.Clear()
	for _, w := range state.Results {
		ui.searchResults.AddItem(w.Title, catalog.SearchSubtitle(w), 0, nil)
	}
}

// SetSettings applies the color theme
func (ui *CursesView) SetSettings(settings Settings) {
	bg, fg := tcell.ColorWhite, tcell.ColorBlack
	if settings.DarkMode {
		bg, fg = tcell.ColorBlack, tcell.ColorWhite
	}
	for _, box := range ui.themedBoxes {
		box.SetBackgroundColor(bg)
	}
	for _, tv := range ui.textViews {
		tv.SetBackgroundColor(bg)
		tv.SetTextColor(fg)
	}
	for _, l := range ui.lists {
		l.SetBackgroundColor(bg)
		l.SetMainTextColor(fg)
	}
	for _, f := range ui.forms {
		f.SetBackgroundColor(bg)
		f.SetLabelColor(fg)
	}
}

// SetBodyMetrics shows BMI and the body-fat estimate
func (ui *CursesView) SetBodyMetrics(state BodyMetricsState) {
	text := fmt.Sprintf("\n  [gray]BMI:[-]      %s\n", state.Result.BMIText())
	text += fmt.Sprintf("  [gray]Body fat:[-] %s [gray](estimate)[-]\n", state.Result.BodyFatText())
	ui.metricsText.SetText(text)
}

func (ui *CursesView) updateHelpBar() {
	var help string
	switch ui.currentRoute.Kind {
	case nav.RouteLogin:
		help = "[yellow]Tab[-] Next field"
	case nav.RouteMain:
		if ui.home.BottomTab == catalog.BottomTabSettings {
			help = "[yellow]Tab[-] Next  |  [yellow]h[-] Home"
		} else {
			help = "[yellow]1-4[-] Tabs  |  [yellow]/[-] Search  |  [yellow]s[-] Settings  |  [yellow]d[-] Dark mode"
		}
	case nav.RouteTraining:
		help = "[yellow]Enter[-] Start"
	case nav.RouteSession:
		help = "[yellow]Space[-] Pause/Resume  |  [yellow]r[-] Restart  |  [yellow]Enter[-] Finish/End"
	default:
		help = "[yellow]Enter[-] Open"
	}

	// Escape pops the stack, or quits on a root screen
	switch {
	case ui.currentRoute.Kind == nav.RouteSession:
		help += "  |  [yellow]Esc[-] End Session"
	case ui.model.Nav().Depth() > 1:
		help += "  |  [yellow]Esc[-] Back"
	default:
		help += "  |  [yellow]Esc[-] Quit"
	}
	ui.helpBar.SetText(help)
}

// getTabWidgetsForCurrentScreen returns the focus cycle of the visible screen
func (ui *CursesView) getTabWidgetsForCurrentScreen() []tview.Primitive {
	switch ui.currentRoute.Kind {
	case nav.RouteLogin:
		return []tview.Primitive{ui.loginForm}
	case nav.RouteMain:
		if ui.home.BottomTab == catalog.BottomTabSettings {
			return []tview.Primitive{ui.settingsForm}
		}
		if ui.home.TopTab == catalog.TopTabRecommend {
			return []tview.Primitive{ui.recommendList, ui.searchInput, ui.searchResults}
		}
		return []tview.Primitive{ui.tabLists[ui.home.TopTab]}
	case nav.RouteTraining:
		return []tview.Primitive{ui.trainingText}
	case nav.RouteSession:
		return []tview.Primitive{ui.sessionText}
	default:
		return []tview.Primitive{ui.itemList}
	}
}

// setFocusForCurrentScreen sets focus to the first widget of the visible screen
func (ui *CursesView) setFocusForCurrentScreen() {
	widgets := ui.getTabWidgetsForCurrentScreen()
	if len(widgets) > 0 {
		ui.app.SetFocus(widgets[0])
	}
}

func (ui *CursesView) formHasFocus() bool {
	for _, f := range ui.forms {
		if f.HasFocus() {
			return true
		}
	}
	return false
}

// isTyping reports whether key presses belong to a text field
func (ui *CursesView) isTyping() bool {
	_, ok := ui.app.GetFocus().(*tview.InputField)
	return ok
}

// SetupKeyboardHandlers sets up keyboard event handlers
func (ui *CursesView) SetupKeyboardHandlers(controller *Controller) {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Tab to switch focus between widgets on the current screen. Forms cycle their own fields.
		if event.Key() == tcell.KeyTab && !ui.formHasFocus() {
			widgets := ui.getTabWidgetsForCurrentScreen()
			widgetCount := len(widgets)
			for i := 0; i < widgetCount; i++ {
				if widgets[i].HasFocus() {
					ui.app.SetFocus(widgets[(i+1)%widgetCount])
					break
				}
			}
			return nil
		}

		// Escape leaves the search box first, then goes back or quits on a root screen
		if event.Key() == tcell.KeyEscape && ui.searchInput.HasFocus() {
			ui.app.SetFocus(ui.recommendList)
			return nil
		}
		if event.Key() == tcell.KeyEscape {
			controller.OnEscapeKey()
			return nil
		}

		switch ui.currentRoute.Kind {
		case nav.RouteTraining:
			if event.Key() == tcell.KeyEnter {
				controller.StartSession()
				return nil
			}
		case nav.RouteSession:
			if event.Key() == tcell.KeyEnter {
				controller.SessionPrimaryAction()
				return nil
			}
			if event.Key() == tcell.KeyRune {
				switch event.Rune() {
				case ' ':
					controller.TogglePauseResume()
					return nil
				case 'r':
					controller.RestartSession()
					return nil
				}
			}
		case nav.RouteMain:
			if event.Key() != tcell.KeyRune || ui.isTyping() {
				return event
			}
			return ui.handleMainRune(controller, event)
		}

		return event
	})
}

func (ui *CursesView) handleMainRune(controller *Controller, event *tcell.EventKey) *tcell.EventKey {
	r := event.Rune()
	switch r {
	case 'h':
		controller.SelectBottomTab(catalog.BottomTabHome)
		return nil
	case 's':
		controller.SelectBottomTab(catalog.BottomTabSettings)
		return nil
	case 'd':
		controller.ToggleDarkMode()
		return nil
	}
	if ui.home.BottomTab != catalog.BottomTabHome {
		return event
	}
	if tab, ok := catalog.GetTopTabByKey(r); ok {
		controller.SelectTopTab(tab)
		return nil
	}
	if ui.home.TopTab != catalog.TopTabRecommend {
		return event
	}
	if r == '/' {
		ui.app.SetFocus(ui.searchInput)
		return nil
	}
	if feature, ok := catalog.GetQuickFeatureByKey(r); ok {
		controller.OnQuickFeature(feature)
		return nil
	}
	return event
}

// GetLogViewHeight returns the visible height of the log view
func (ui *CursesView) GetLogViewHeight() int {
	_, _, _, height := ui.logView.GetInnerRect()
	return height
}

// ClearLogView clears the log view
func (ui *CursesView) ClearLogView() {
	ui.logView.Clear()
}

// WriteLogLine writes a line to the log view
func (ui *CursesView) WriteLogLine(line string) error {
	_, err := fmt.Fprint(ui.logView, tview.Escape(line))
	return err
}

// QueueUpdate runs f on the tview event loop
func (ui *CursesView) QueueUpdate(f func()) {
	ui.queue(func() { ui.app.QueueUpdate(f) })
}

// QueueUpdateDraw runs f on the tview event loop and redraws
func (ui *CursesView) QueueUpdateDraw(f func()) {
	ui.queue(func() { ui.app.QueueUpdateDraw(f) })
}

// queue waits for enqueue unless the event loop is gone. tview's QueueUpdate
// never returns once the loop has exited, so the wait happens on its own
// goroutine.
func (ui *CursesView) queue(enqueue func()) {
	select {
	case <-ui.stopped:
		return
	default:
	}

	done := make(chan struct{})
	go_func_utils.SafeGo(ui.logger, "CursesView.queue", func() {
		defer close(done)
		enqueue()
	})
	select {
	case <-done:
	case <-ui.stopped:
	}
}

// Run starts the UI and blocks until it exits
func (ui *CursesView) Run() error {
	defer ui.markStopped()

	// SetRoot must be called before setting focus, otherwise focus may be reset
	ui.app.SetRoot(ui.mainFlex, true)
	ui.setFocusForCurrentScreen()
	return ui.app.Run()
}

// Stop stops the UI framework
func (ui *CursesView) Stop() {
	ui.markStopped()
	ui.app.Stop()
}

func (ui *CursesView) markStopped() {
	ui.stopOnce.Do(func() { close(ui.stopped) })
}

func cardTitle(w catalog.WorkoutMeta) string {
	if catalog.HasCoverImage(w.Title) {
		return "▶ " + w.Title
	}
	return w.Title
}
