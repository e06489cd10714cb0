package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"imagecompressor/internal/domain/entities"
	"imagecompressor/internal/domain/repositories"
)

// UI Configuration constants
const (
	MaxLogBufferSize   = 1000
	LogFlushInterval   = 50 * time.Millisecond
	ProgressBarWidth   = 40
	MaxFileNameLength  = 60
	MaxFileNameDisplay = 57
	ProgressViewHeight = 11
)

// Порядок элементов формы конфигурации
const (
	formSourceDirectory = iota
	formOutputSubdirectory
	formMaxWidth
	formMaxHeight
	formMaxFileSize
	formResampleFilter
	formVerbose
	formLogToFile
	formMetricsFile
)

// Manager управляет TUI интерфейсом
type Manager struct {
	app           *tview.Application
	pages         *tview.Pages
	currentScreen entities.UIScreen

	// UI компоненты
	mainMenu     *tview.List
	configForm   *tview.Form
	progressView *tview.TextView
	logView      *tview.TextView

	// Callbacks
	onStartProcessing func()

	// Конфигурация
	configRepo repositories.AppConfigRepository
	configPath string
	config     *entities.Config

	// Состояние
	logBuffer    []string
	statusMutex  sync.RWMutex
	isProcessing bool

	// Батчинг логов через канал
	logChan  chan string
	logDone  chan struct{}
	logMutex sync.Mutex
}

// NewManager создает новый менеджер TUI
func NewManager(configRepo repositories.AppConfigRepository, configPath string) *Manager {
	m := &Manager{
		app:        tview.NewApplication(),
		pages:      tview.NewPages(),
		configRepo: configRepo,
		configPath: configPath,
		config:     entities.NewDefaultConfig(),
		logBuffer:  make([]string, 0, MaxLogBufferSize),
		logChan:    make(chan string, 100),
		logDone:    make(chan struct{}),
	}
	go m.logProcessor()
	return m
}

// Initialize инициализирует TUI
func (m *Manager) Initialize() {
	m.loadConfig()
	m.createUI()
	m.setupKeyBindings()
}

// Run запускает TUI
func (m *Manager) Run() error {
	return m.app.SetRoot(m.pages, true).EnableMouse(true).Run()
}

// SetOnStartProcessing устанавливает callback для начала обработки
func (m *Manager) SetOnStartProcessing(callback func()) {
	m.onStartProcessing = callback
}

// SendStatusUpdate отправляет обновление статуса
func (m *Manager) SendStatusUpdate(status entities.ProcessingStatus) {
	m.updateProgress(status)
}

// GetConfig возвращает копию текущей конфигурации
func (m *Manager) GetConfig() *entities.Config {
	m.statusMutex.RLock()
	defer m.statusMutex.RUnlock()

	clone := *m.config
	return &clone
}

// loadConfig загружает конфигурацию; при ошибке остаются текущие значения
func (m *Manager) loadConfig() {
	cfg, err := m.configRepo.Load(m.configPath)
	if err != nil {
		m.AddLog("ERROR", fmt.Sprintf("Ошибка загрузки конфигурации: %v", err))
		return
	}
	m.config = cfg
}

// saveConfig сохраняет конфигурацию
func (m *Manager) saveConfig() error {
	if err := m.configRepo.Save(m.configPath, m.config); err != nil {
		m.AddLog("ERROR", fmt.Sprintf("Ошибка сохранения конфигурации: %v", err))
		return err
	}
	return nil
}

// createUI создает пользовательский интерфейс
func (m *Manager) createUI() {
	m.createMainMenu()
	m.createConfigScreen()
	m.createProcessingScreen()

	m.pages.AddPage("menu", m.mainMenu, true, true)
	m.pages.AddPage("config", m.configForm, true, false)
	m.pages.AddPage("processing", m.createProcessingLayout(), true, false)

	m.currentScreen = entities.UIScreenMenu
}

// createMainMenu создает главное меню
func (m *Manager) createMainMenu() {
	m.mainMenu = tview.NewList().
		AddItem("🚀 Запуск сжатия", "Уменьшить изображения исходной директории", '1', func() {
			m.startProcessing()
		}).
		AddItem("⚙️ Конфигурация", "Настроить директории и ограничения", '2', func() {
			m.switchToScreen(entities.UIScreenConfig)
		}).
		AddItem("❌ Выход", "Закрыть приложение", 'q', func() {
			m.Cleanup()
			m.app.Stop()
		})

	m.mainMenu.SetBorder(true).
		SetTitle("🖼  Image Compressor - Главное меню").
		SetTitleAlign(tview.AlignCenter)

	m.mainMenu.SetSelectedBackgroundColor(tcell.ColorDarkBlue).
		SetSelectedTextColor(tcell.ColorWhite).
		SetMainTextColor(tcell.ColorWhite).
		SetSecondaryTextColor(tcell.ColorGray)
}

// createConfigScreen создает экран конфигурации
func (m *Manager) createConfigScreen() {
	m.configForm = tview.NewForm().
		AddInputField("Исходная директория", m.config.Scanner.SourceDirectory, 60, nil, func(text string) {
			m.config.Scanner.SourceDirectory = text
		}).
		AddInputField("Выходная поддиректория", m.config.Scanner.OutputSubdirectory, 30, nil, func(text string) {
			m.config.Scanner.OutputSubdirectory = text
		}).
		AddInputField("Максимальная ширина (px)", strconv.Itoa(m.config.Limits.MaxWidth), 10, acceptDigits, func(text string) {
			if v, ok := parsePositive(text); ok {
				m.config.Limits.MaxWidth = int(v)
			}
		}).
		AddInputField("Максимальная высота (px)", strconv.Itoa(m.config.Limits.MaxHeight), 10, acceptDigits, func(text string) {
			if v, ok := parsePositive(text); ok {
				m.config.Limits.MaxHeight = int(v)
			}
		}).
		AddInputField("Бюджет файла (байт)", strconv.FormatInt(m.config.Limits.MaxFileSize, 10), 12, acceptDigits, func(text string) {
			if v, ok := parsePositive(text); ok {
				m.config.Limits.MaxFileSize = v
			}
		}).
		AddDropDown("Фильтр ресемплинга", entities.SupportedResampleFilters, filterIndex(m.config.Limits.ResampleFilter), func(option string, _ int) {
			m.config.Limits.ResampleFilter = option
		}).
		AddCheckbox("Подробный вывод", m.config.Output.Verbose, func(checked bool) {
			m.config.Output.Verbose = checked
		}).
		AddCheckbox("Лог в файл", m.config.Output.LogToFile, func(checked bool) {
			m.config.Output.LogToFile = checked
		}).
		AddInputField("Файл метрик (пусто - не писать)", m.config.Output.MetricsFile, 60, nil, func(text string) {
			m.config.Output.MetricsFile = text
		}).
		AddButton("Сохранить", func() {
			if err := m.saveConfig(); err != nil {
				m.configForm.SetTitle(fmt.Sprintf("❌ %v", err))
				return
			}
			m.configForm.SetTitle(configFormTitle)
			m.switchToScreen(entities.UIScreenMenu)
			m.mainMenu.SetCurrentItem(1)
		})

	m.configForm.SetBorder(true).
		SetTitle(configFormTitle).
		SetTitleAlign(tview.AlignCenter)

	// ESC - выход без сохранения
	m.configForm.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			m.loadConfig()
			m.configForm.SetTitle(configFormTitle)
			m.switchToScreen(entities.UIScreenMenu)
			return nil
		}
		return event
	})
}

const configFormTitle = "🖼  Image Compressor - Конфигурация (ESC - выйти без сохранения)"

// createProcessingScreen создает экран обработки
func (m *Manager) createProcessingScreen() {
	m.progressView = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetScrollable(true)

	m.progressView.SetBorder(true).
		SetTitle("📊 Прогресс обработки").
		SetTitleAlign(tview.AlignCenter)

	m.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(MaxLogBufferSize)

	m.logView.SetBorder(true).
		SetTitle("📋 Журнал событий").
		SetTitleAlign(tview.AlignCenter)
}

// createProcessingLayout создает layout для экрана обработки
func (m *Manager) createProcessingLayout() *tview.Flex {
	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(m.logView, 0, 1, false).
		AddItem(m.progressView, ProgressViewHeight, 0, false)
}

// setupKeyBindings настраивает горячие клавиши
func (m *Manager) setupKeyBindings() {
	m.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			m.switchToScreen(entities.UIScreenMenu)
			return nil
		case tcell.KeyF2:
			m.switchToScreen(entities.UIScreenConfig)
			return nil
		case tcell.KeyF3:
			if m.isProcessing {
				m.switchToScreen(entities.UIScreenProcessing)
			}
			return nil
		case tcell.KeyEscape:
			// В конфигурации ESC обрабатывается формой
			if m.currentScreen == entities.UIScreenConfig {
				return event
			} else if m.currentScreen != entities.UIScreenMenu {
				m.switchToScreen(entities.UIScreenMenu)
				return nil
			}
		}

		if m.currentScreen == entities.UIScreenMenu {
			switch event.Rune() {
			case '1':
				m.startProcessing()
				return nil
			case '2':
				m.switchToScreen(entities.UIScreenConfig)
				return nil
			case 'q', 'Q':
				m.Cleanup()
				m.app.Stop()
				return nil
			}
		}

		return event
	})
}

// switchToScreen переключает на указанный экран
func (m *Manager) switchToScreen(screen entities.UIScreen) {
	m.statusMutex.Lock()
	defer m.statusMutex.Unlock()

	m.currentScreen = screen

	switch screen {
	case entities.UIScreenMenu:
		m.pages.SwitchToPage("menu")
	case entities.UIScreenConfig:
		// При входе перечитываем файл и синхронизируем форму
		m.loadConfig()
		m.refreshConfigForm()
		m.pages.SwitchToPage("config")
	case entities.UIScreenProcessing:
		m.pages.SwitchToPage("processing")
	}
}

// startProcessing начинает обработку
func (m *Manager) startProcessing() {
	if m.isProcessing {
		m.switchToScreen(entities.UIScreenProcessing)
		return
	}

	if err := m.saveConfig(); err != nil {
		return
	}
	m.isProcessing = true
	m.switchToScreen(entities.UIScreenProcessing)

	if m.onStartProcessing != nil {
		go m.onStartProcessing()
	}
}

// updateProgress обновляет прогресс
func (m *Manager) updateProgress(status entities.ProcessingStatus) {
	if m.progressView == nil {
		return
	}

	progressText := m.formatProgress(status)
	if status.IsComplete {
		m.isProcessing = false
	}

	m.app.QueueUpdateDraw(func() {
		m.progressView.SetText(progressText)
	})
}

// formatProgress формирует текст панели прогресса
func (m *Manager) formatProgress(status entities.ProcessingStatus) string {
	progressBar := m.createProgressBar(status.Progress, ProgressBarWidth)
	displayFile := m.truncateFileName(filepath.Base(status.CurrentFile), MaxFileNameLength, MaxFileNameDisplay)

	phaseText := status.Phase.String()
	if status.Message != "" {
		phaseText = status.Message
	}

	var b strings.Builder

	fmt.Fprintf(&b, "[yellow]⚙️  Фаза:[white] %s  [dim]%s[white]\n", phaseText, status.RunID)
	fmt.Fprintf(&b, "[yellow]📁 Текущий файл:[white] %s", displayFile)
	if status.CurrentFileSize > 0 {
		fmt.Fprintf(&b, " [dim](%s)[white]", entities.FormatBytes(status.CurrentFileSize))
	}
	b.WriteString("\n")

	if last := status.LastResult; last != nil && last.Success {
		fmt.Fprintf(&b, "[dim]   └─ %s -> %s, качество %d[white]\n",
			last.OriginalDimensions, last.OutputDimensions, last.Quality)
	}

	fmt.Fprintf(&b, "[cyan]📊 Прогресс:[white] %s [cyan]%.1f%%[white]\n", progressBar, status.Progress)

	fmt.Fprintf(&b, "[green]📈 Файлы:[white] всего [cyan]%d[white], обработано [cyan]%d[white], успешно [green]%d[white]",
		status.TotalFiles, status.ProcessedFiles, status.SuccessfulFiles)
	if status.BudgetWarnings > 0 {
		fmt.Fprintf(&b, ", сверх бюджета [yellow]%d[white]", status.BudgetWarnings)
	}
	if status.FailedFiles > 0 {
		fmt.Fprintf(&b, ", ошибок [red]%d[white]", status.FailedFiles)
	}
	b.WriteString("\n")

	if status.TotalOriginalSize > 0 {
		fmt.Fprintf(&b, "[green]💾 Размер:[white] %s -> %s, сжатие [green]%.1f%%[white]\n",
			entities.FormatBytes(status.TotalOriginalSize),
			entities.FormatBytes(status.TotalCompressedSize),
			status.AverageCompression)
	}

	fmt.Fprintf(&b, "[yellow]⏱️  Время:[white] %s", status.FormatElapsedTime())
	if !status.IsComplete && status.EstimatedTime > 0 {
		fmt.Fprintf(&b, ", осталось ~%s", status.FormatEstimatedTime())
	}
	b.WriteString("\n")

	if status.IsComplete {
		if status.Error != nil {
			fmt.Fprintf(&b, "[red]❌ Ошибка: %v[white]\n", status.Error)
		} else {
			b.WriteString("[green]✅ Обработка завершена![white]\n")
		}
	}
	b.WriteString("[yellow]F1/ESC[white] - Главное меню")

	return b.String()
}

// truncateFileName корректно усекает имя файла с учетом UTF-8
func (m *Manager) truncateFileName(fileName string, maxLength, truncateAt int) string {
	runes := []rune(fileName)
	if len(runes) <= maxLength {
		return fileName
	}
	return string(runes[:truncateAt]) + "..."
}

// createProgressBar создает цветной прогресс-бар
func (m *Manager) createProgressBar(progress float64, width int) string {
	progress = math.Max(0, math.Min(progress, 100))

	filled := int(math.Round(progress * float64(width) / 100))
	filled = min(max(filled, 0), width)

	const filledChar = "█"
	const emptyChar = "░"

	var color string
	switch {
	case progress < 25:
		color = "red"
	case progress < 50:
		color = "yellow"
	case progress < 75:
		color = "blue"
	default:
		color = "green"
	}

	return fmt.Sprintf("[%s]%s[gray]%s", color, strings.Repeat(filledChar, filled), strings.Repeat(emptyChar, width-filled))
}

// AddLog добавляет запись в лог через канал (неблокирующе)
func (m *Manager) AddLog(level, message string) {
	select {
	case m.logChan <- formatLogLine(level, message):
	default:
		// Канал переполнен, запись теряется
	}
}

func formatLogLine(level, message string) string {
	var color string
	switch strings.ToLower(level) {
	case "error":
		color = "red"
	case "warning":
		color = "yellow"
	case "success":
		color = "green"
	case "debug":
		color = "gray"
	default:
		color = "white"
	}

	return fmt.Sprintf("[%s]%s:[white] %s", color, strings.ToUpper(level), tview.Escape(message))
}

// logProcessor обрабатывает логи в отдельной горутине с батчингом
func (m *Manager) logProcessor() {
	ticker := time.NewTicker(LogFlushInterval)
	defer ticker.Stop()

	batch := make([]string, 0, 50)

	for {
		select {
		case logLine := <-m.logChan:
			batch = append(batch, logLine)
			if len(batch) >= 20 {
				m.flushLogBatch(batch)
				batch = make([]string, 0, 50)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				m.flushLogBatch(batch)
				batch = make([]string, 0, 50)
			}

		case <-m.logDone:
			if len(batch) > 0 {
				m.flushLogBatch(batch)
			}
			return
		}
	}
}

// flushLogBatch сбрасывает батч логов в UI
func (m *Manager) flushLogBatch(batch []string) {
	m.statusMutex.Lock()
	m.logBuffer = append(m.logBuffer, batch...)
	if len(m.logBuffer) > MaxLogBufferSize {
		m.logBuffer = m.logBuffer[len(m.logBuffer)-MaxLogBufferSize:]
	}
	logText := strings.Join(m.logBuffer, "\n")
	m.statusMutex.Unlock()

	if m.logView != nil {
		m.app.QueueUpdateDraw(func() {
			m.logView.SetText(logText)
			m.logView.ScrollToEnd()
		})
	}
}

// Cleanup освобождает ресурсы менеджера (идемпотентный)
func (m *Manager) Cleanup() {
	m.logMutex.Lock()
	defer m.logMutex.Unlock()

	select {
	case <-m.logDone:
		return
	default:
		close(m.logDone)
	}
}

// refreshConfigForm синхронизирует значения формы с текущей конфигурацией
func (m *Manager) refreshConfigForm() {
	if m.configForm == nil {
		return
	}

	setText := func(index int, text string) {
		if item, ok := m.configForm.GetFormItem(index).(*tview.InputField); ok {
			item.SetText(text)
		}
	}
	setChecked := func(index int, checked bool) {
		if item, ok := m.configForm.GetFormItem(index).(*tview.Checkbox); ok {
			item.SetChecked(checked)
		}
	}

	// Значения копируются заранее: SetText вызывает обработчики изменений
	cfg := *m.config

	setText(formSourceDirectory, cfg.Scanner.SourceDirectory)
	setText(formOutputSubdirectory, cfg.Scanner.OutputSubdirectory)
	setText(formMaxWidth, strconv.Itoa(cfg.Limits.MaxWidth))
	setText(formMaxHeight, strconv.Itoa(cfg.Limits.MaxHeight))
	setText(formMaxFileSize, strconv.FormatInt(cfg.Limits.MaxFileSize, 10))
	if dd, ok := m.configForm.GetFormItem(formResampleFilter).(*tview.DropDown); ok {
		dd.SetCurrentOption(filterIndex(cfg.Limits.ResampleFilter))
	}
	setChecked(formVerbose, cfg.Output.Verbose)
	setChecked(formLogToFile, cfg.Output.LogToFile)
	setText(formMetricsFile, cfg.Output.MetricsFile)

	*m.config = cfg
}

// acceptDigits пропускает в числовые поля только цифры
func acceptDigits(text string, lastChar rune) bool {
	return lastChar >= '0' && lastChar <= '9'
}

// parsePositive разбирает положительное целое из поля формы
func parsePositive(text string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// filterIndex возвращает позицию фильтра в выпадающем списке
func filterIndex(name string) int {
	for i, f := range entities.SupportedResampleFilters {
		if strings.EqualFold(f, name) {
			return i
		}
	}
	return 0
}
