package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"imgshrink/internal/domain/entities"
	"imgshrink/internal/domain/repositories"
)

// UI Configuration constants
const (
	MaxLogBufferSize   = 1000
	LogFlushInterval   = 50 * time.Millisecond
	ProgressBarWidth   = 40
	MaxFileNameLength  = 60
	MaxFileNameDisplay = 57
	ProgressViewHeight = 12
)

// Индексы элементов формы конфигурации
const (
	formItemSource = iota
	formItemDestination
	formItemOutput
	formItemBackup
	formItemMaxDimension
	formItemMaxFileSize
	formItemQualityMax
	formItemQualityMin
	formItemQualityStep
	formItemAutoStart
)

const configFormTitle = "🖼  Image Shrinker - Конфигурация (ESC - выйти без сохранения)"

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
	config     entities.Config

	// Состояние
	journal      *logJournal
	statusMutex  sync.RWMutex
	isProcessing bool
}

// NewManager создает новый менеджер TUI.
// config используется как начальное состояние формы конфигурации.
func NewManager(configRepo repositories.AppConfigRepository, configPath string, config *entities.Config) *Manager {
	m := &Manager{
		app:        tview.NewApplication(),
		pages:      tview.NewPages(),
		configRepo: configRepo,
		configPath: configPath,
		config:     *config,
	}
	m.journal = newLogJournal(MaxLogBufferSize, m.renderLog)
	go m.journal.run(LogFlushInterval)
	return m
}

// Initialize инициализирует TUI
func (m *Manager) Initialize() {
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

// ShowProcessing переключает интерфейс на экран обработки
func (m *Manager) ShowProcessing() {
	m.statusMutex.Lock()
	m.isProcessing = true
	m.statusMutex.Unlock()
	m.switchToScreen(entities.UIScreenProcessing)
}

// GetConfig возвращает копию текущей конфигурации
func (m *Manager) GetConfig() *entities.Config {
	m.statusMutex.RLock()
	defer m.statusMutex.RUnlock()

	config := m.config
	return &config
}

// loadConfig перечитывает конфигурацию из файла.
// При ошибке сохраняется текущее состояние формы.
func (m *Manager) loadConfig() {
	config, err := m.configRepo.Load(m.configPath)
	if err != nil {
		m.AddLog("ERROR", fmt.Sprintf("Не удалось загрузить %s: %v", m.configPath, err))
		return
	}
	m.config = *config
}

// saveConfig проверяет и сохраняет конфигурацию
func (m *Manager) saveConfig() error {
	if err := m.configRepo.Validate(&m.config); err != nil {
		return err
	}
	return m.configRepo.Save(m.configPath, &m.config)
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
		AddItem("🚀 Запуск сжатия", "Сжать изображения во всех тематических папках", '1', func() {
			m.startProcessing()
		}).
		AddItem("⚙️ Конфигурация", "Настроить директории, бюджет размера и качество", '2', func() {
			m.switchToScreen(entities.UIScreenConfig)
		}).
		AddItem("❌ Выход", "Закрыть приложение", 'q', func() {
			m.Cleanup()
			m.app.Stop()
		})

	m.mainMenu.SetBorder(true).
		SetTitle("🖼  Image Shrinker - Главное меню").
		SetTitleAlign(tview.AlignCenter)

	// Настраиваем стиль
	m.mainMenu.SetSelectedBackgroundColor(tcell.ColorDarkBlue).
		SetSelectedTextColor(tcell.ColorWhite).
		SetMainTextColor(tcell.ColorWhite).
		SetSecondaryTextColor(tcell.ColorGray)
}

// createConfigScreen создает экран конфигурации
func (m *Manager) createConfigScreen() {
	policies := entities.DestinationPolicies()
	policyLabels := make([]string, len(policies))
	for i, p := range policies {
		policyLabels[i] = p.String()
	}

	m.configForm = tview.NewForm().
		AddInputField("Исходная директория", m.config.Scanner.SourceDirectory, 60, nil, func(text string) {
			m.config.Scanner.SourceDirectory = text
		}).
		AddDropDown("Режим записи", policyLabels, policyIndex(m.config.Scanner.Destination), func(option string, optionIndex int) {
			if optionIndex >= 0 && optionIndex < len(policies) {
				m.config.Scanner.Destination = policies[optionIndex]
				m.updateDestinationFields()
			}
		}).
		AddInputField("Целевая директория", m.config.Scanner.OutputDirectory, 60, nil, func(text string) {
			m.config.Scanner.OutputDirectory = text
		}).
		AddInputField("Директория резервной копии", m.config.Scanner.BackupDirectory, 60, nil, func(text string) {
			m.config.Scanner.BackupDirectory = text
		})

	m.addIntField("Макс. сторона (px)", m.config.Compression.MaxDimension, func(v int) {
		m.config.Compression.MaxDimension = v
	})
	m.addIntField("Бюджет размера (КБ)", m.config.Compression.MaxFileSizeKB, func(v int) {
		m.config.Compression.MaxFileSizeKB = v
	})
	m.addIntField("Начальное качество", m.config.Compression.QualityMax, func(v int) {
		m.config.Compression.QualityMax = v
	})
	m.addIntField("Минимальное качество", m.config.Compression.QualityMin, func(v int) {
		m.config.Compression.QualityMin = v
	})
	m.addIntField("Шаг качества", m.config.Compression.QualityStep, func(v int) {
		m.config.Compression.QualityStep = v
	})

	m.configForm.
		AddCheckbox("Автостарт", m.config.Compression.AutoStart, func(checked bool) {
			m.config.Compression.AutoStart = checked
		}).
		AddButton("Сохранить", func() {
			if err := m.saveConfig(); err != nil {
				m.configForm.SetTitle(fmt.Sprintf("❌ %v", err))
				return
			}
			m.configForm.SetTitle(configFormTitle)
			m.switchToScreen(entities.UIScreenMenu)
			// Позиционируемся на пункте "Конфигурация" (индекс 1)
			m.mainMenu.SetCurrentItem(1)
		})

	m.updateDestinationFields()

	m.configForm.SetBorder(true).
		SetTitle(configFormTitle).
		SetTitleAlign(tview.AlignCenter)

	// Обработка ESC для выхода без сохранения
	m.configForm.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			// Перезагружаем конфигурацию из файла (отменяем изменения)
			m.loadConfig()
			m.configForm.SetTitle(configFormTitle)
			m.switchToScreen(entities.UIScreenMenu)
			return nil
		}
		return event
	})
}

// addIntField добавляет в форму поле для целого числа
func (m *Manager) addIntField(label string, value int, set func(int)) {
	m.configForm.AddInputField(label, strconv.Itoa(value), 10, tview.InputFieldInteger, func(text string) {
		if v, err := strconv.Atoi(text); err == nil {
			set(v)
		}
	})
}

// policyIndex возвращает индекс политики в выпадающем списке
func policyIndex(policy entities.DestinationPolicy) int {
	for i, p := range entities.DestinationPolicies() {
		if p == policy {
			return i
		}
	}
	return 0
}

// updateDestinationFields подсвечивает поле директории, нужное выбранному режиму
func (m *Manager) updateDestinationFields() {
	if m.configForm == nil || m.configForm.GetFormItemCount() <= formItemBackup {
		return
	}

	output := m.configForm.GetFormItem(formItemOutput).(*tview.InputField)
	backup := m.configForm.GetFormItem(formItemBackup).(*tview.InputField)

	if m.config.Scanner.Destination.NeedsBackup() {
		output.SetLabel("Целевая директория (не используется)")
		output.SetFieldBackgroundColor(tcell.ColorDarkGray)
		backup.SetLabel("💾 Директория резервной копии")
		backup.SetFieldBackgroundColor(tcell.ColorDarkBlue)
	} else {
		output.SetLabel("📁 Целевая директория")
		output.SetFieldBackgroundColor(tcell.ColorDarkBlue)
		backup.SetLabel("Директория резервной копии (не используется)")
		backup.SetFieldBackgroundColor(tcell.ColorDarkGray)
	}
}

// refreshConfigForm синхронизирует значения формы с текущими данными конфигурации
func (m *Manager) refreshConfigForm() {
	if m.configForm == nil {
		return
	}

	setText := func(index int, text string) {
		if item := m.configForm.GetFormItem(index); item != nil {
			item.(*tview.InputField).SetText(text)
		}
	}

	setText(formItemSource, m.config.Scanner.SourceDirectory)
	setText(formItemOutput, m.config.Scanner.OutputDirectory)
	setText(formItemBackup, m.config.Scanner.BackupDirectory)
	setText(formItemMaxDimension, strconv.Itoa(m.config.Compression.MaxDimension))
	setText(formItemMaxFileSize, strconv.Itoa(m.config.Compression.MaxFileSizeKB))
	setText(formItemQualityMax, strconv.Itoa(m.config.Compression.QualityMax))
	setText(formItemQualityMin, strconv.Itoa(m.config.Compression.QualityMin))
	setText(formItemQualityStep, strconv.Itoa(m.config.Compression.QualityStep))

	if item := m.configForm.GetFormItem(formItemDestination); item != nil {
		item.(*tview.DropDown).SetCurrentOption(policyIndex(m.config.Scanner.Destination))
	}
	if item := m.configForm.GetFormItem(formItemAutoStart); item != nil {
		item.(*tview.Checkbox).SetChecked(m.config.Compression.AutoStart)
	}

	m.updateDestinationFields()
}

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
			if m.processing() {
				m.switchToScreen(entities.UIScreenProcessing)
			}
			return nil
		case tcell.KeyEscape:
			// ESC работает по-разному в зависимости от экрана
			if m.currentScreen == entities.UIScreenConfig {
				// В конфигурации ESC обрабатывается локально формой
				return event
			} else if m.currentScreen != entities.UIScreenMenu {
				m.switchToScreen(entities.UIScreenMenu)
				return nil
			}
		}

		// Обработка числовых клавиш для меню
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
		m.refreshConfigForm()
		m.pages.SwitchToPage("config")
	case entities.UIScreenProcessing:
		m.pages.SwitchToPage("processing")
	}
}

func (m *Manager) processing() bool {
	m.statusMutex.RLock()
	defer m.statusMutex.RUnlock()
	return m.isProcessing
}

// startProcessing начинает обработку
func (m *Manager) startProcessing() {
	if m.processing() {
		m.switchToScreen(entities.UIScreenProcessing)
		return
	}

	if err := m.saveConfig(); err != nil {
		m.AddLog("ERROR", fmt.Sprintf("Конфигурация не сохранена: %v", err))
	}
	m.ShowProcessing()

	if m.onStartProcessing != nil {
		go m.onStartProcessing()
	}
}

// updateProgress обновляет прогресс
func (m *Manager) updateProgress(status entities.ProcessingStatus) {
	if m.progressView == nil {
		return
	}

	m.app.QueueUpdateDraw(func() {
		m.progressView.SetText(renderProgress(status))
	})

	if status.IsComplete {
		m.statusMutex.Lock()
		m.isProcessing = false
		m.statusMutex.Unlock()
	}
}

// renderProgress формирует текст панели прогресса
func renderProgress(status entities.ProcessingStatus) string {
	// Фаза обработки
	phaseText := status.Phase.String()
	if status.Message != "" {
		phaseText = status.Message
	}

	// Корректное усечение имени файла с учетом UTF-8
	displayFile := truncateFileName(filepath.Base(status.CurrentFile), MaxFileNameLength, MaxFileNameDisplay)

	progressText := fmt.Sprintf("[yellow]⚙️  Фаза:[white] %s\n\n", phaseText)

	if status.CurrentTheme != "" {
		progressText += fmt.Sprintf("[yellow]🗂  Тема:[white] %s\n", status.CurrentTheme)
	}
	if status.CurrentFile != "" {
		progressText += fmt.Sprintf("[yellow]🖼  Текущий файл:[white] %s\n", displayFile)
	}

	// Размер текущего файла
	if status.CurrentFileSize > 0 {
		progressText += fmt.Sprintf("[dim]   Размер: %s[white]\n", humanize.IBytes(uint64(status.CurrentFileSize)))
	}

	// Прогресс-бар
	progressText += fmt.Sprintf(
		"\n[cyan]📊 Прогресс:[white] %s [cyan]%.1f%%[white]\n\n",
		createProgressBar(status.Progress, ProgressBarWidth),
		status.Progress,
	)

	// Статистика файлов
	progressText += fmt.Sprintf(
		"[green]📈 Статистика:[white]\n"+
			"  • Тем: [cyan]%d[white]\n"+
			"  • Изображений: [cyan]%d[white]\n"+
			"  • Обработано: [cyan]%d[white]\n"+
			"  • Успешно: [green]%d[white]",
		status.TotalThemes,
		status.TotalFiles,
		status.ProcessedFiles,
		status.SuccessfulFiles,
	)

	if status.FailedFiles > 0 {
		progressText += fmt.Sprintf("\n  • Ошибок: [red]%d[white]", status.FailedFiles)
	}
	if status.FallbackFiles > 0 {
		progressText += fmt.Sprintf("\n  • С уменьшением разрешения: [blue]%d[white]", status.FallbackFiles)
	}
	if status.OverBudgetFiles > 0 {
		progressText += fmt.Sprintf("\n  • Больше бюджета: [yellow]%d[white]", status.OverBudgetFiles)
	}

	// Статистика сжатия
	if status.TotalOriginalSize > 0 {
		progressText += fmt.Sprintf(
			"\n\n[green]💾 Статистика сжатия:[white]\n"+
				"  • Исходный размер: [cyan]%s[white]\n"+
				"  • Сжатый размер: [cyan]%s[white]\n"+
				"  • Среднее сжатие: [green]%.1f%%[white]\n"+
				"  • Сэкономлено: [green]%s[white]",
			humanize.IBytes(uint64(status.TotalOriginalSize)),
			humanize.IBytes(uint64(status.TotalCompressedSize)),
			status.AverageCompression,
			humanize.IBytes(uint64(max(status.TotalSavedSpace, 0))),
		)
	}

	// Время выполнения
	progressText += fmt.Sprintf(
		"\n\n[yellow]⏱️  Время:[white]\n"+
			"  • Прошло: [cyan]%s[white]",
		status.FormatElapsedTime(),
	)

	if !status.IsComplete && status.EstimatedTime > 0 {
		progressText += fmt.Sprintf("\n  • Осталось: [cyan]~%s[white]", status.FormatEstimatedTime())
	}

	progressText += "\n\n"

	if status.IsComplete {
		if status.Error != nil {
			progressText += "[red]❌ Обработка завершена с ошибкой![white]\n"
			progressText += fmt.Sprintf("[red]Ошибка: %v[white]\n", status.Error)
		} else {
			progressText += "[green]✅ Обработка успешно завершена![white]\n"
		}
	}
	progressText += "\n[yellow]F1[white] / [yellow]ESC[white] - Главное меню\n"

	return progressText
}

// truncateFileName корректно усекает имя файла с учетом UTF-8
func truncateFileName(fileName string, maxLength, truncateAt int) string {
	runes := []rune(fileName)
	if len(runes) <= maxLength {
		return fileName
	}
	return string(runes[:truncateAt]) + "..."
}

// createProgressBar создает цветной прогресс-бар
func createProgressBar(progress float64, width int) string {
	// Нормализуем значения
	if progress < 0 {
		progress = 0
	} else if progress > 100 {
		progress = 100
	}

	filled := int(math.Round(progress * float64(width) / 100))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	const filledChar = "█"
	const emptyChar = "░"

	// Цвет зависит от прогресса
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

	filledPart := strings.Repeat(filledChar, filled)
	emptyPart := strings.Repeat(emptyChar, width-filled)

	return fmt.Sprintf("[%s]%s[gray]%s", color, filledPart, emptyPart)
}

// renderLog выводит накопленный журнал в UI
func (m *Manager) renderLog(text string) {
	if m.logView == nil {
		return
	}
	m.app.QueueUpdateDraw(func() {
		m.logView.SetText(text)
		m.logView.ScrollToEnd()
	})
}

// formatLogLine раскрашивает строку журнала по уровню
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

// AddLog добавляет запись в журнал (неблокирующе)
func (m *Manager) AddLog(level, message string) {
	m.journal.add(formatLogLine(level, message))
}

// Cleanup освобождает ресурсы менеджера (идемпотентный)
func (m *Manager) Cleanup() {
	m.journal.close()
}
