package report

import "html/template"

var pageTemplate = template.Must(template.New("perfview-report").Parse(pageTemplateHTML))

const pageTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <style>
    :root {
      --primary: #334155;
      --secondary: #64748B;
      --light: #F1F5F9;
      --background: #FFFFFF;
      --text: #0F172A;
      --border: #E2E8F0;
    }
    body {
      background-color: var(--light);
      color: var(--text);
    }
    .navbar-dark {
      background-color: var(--primary) !important;
    }
    .card {
      border: 1px solid var(--border);
      background-color: var(--background);
    }
    .chart-canvas {
      position: relative;
      height: 480px;
    }
    .legend-container {
      display: flex;
      gap: 1.5rem;
      justify-content: center;
      flex-wrap: wrap;
      margin-top: 1rem;
      padding-top: 1rem;
      border-top: 2px solid var(--border);
    }
    .legend-item {
      display: flex;
      align-items: center;
      gap: 0.5rem;
    }
    .legend-color {
      width: 20px;
      height: 20px;
      border-style: solid;
      cursor: pointer;
    }
    .legend-item.hidden-series input {
      text-decoration: line-through;
    }
    .report-name {
      font-size: 15px;
      font-weight: bold;
      text-align: center;
    }
    #summaryTable th.delta-head { cursor: pointer; }
    .invisible-until-loaded { display: none; }
  </style>
</head>
<body>
  <nav class="navbar navbar-dark">
    <div class="container-fluid">
      <span class="navbar-brand mb-0 h1">{{ .Title }}</span>
      <span class="text-light small">Generated: <span id="generatedAt">-</span></span>
    </div>
  </nav>
  <main class="container-fluid my-4">
    {{ if .Interactive }}
    <section class="card shadow-sm mb-4">
      <div class="card-body d-flex flex-wrap gap-3 align-items-center">
        <input class="form-control w-auto" type="file" id="fileInput" accept=".csv" multiple>
        <span class="text-danger small" id="uploadError"></span>
      </div>
    </section>
    {{ end }}

    <section class="card shadow-sm mb-4 invisible-until-loaded" id="chartSection">
      <div class="card-header bg-white d-flex flex-wrap gap-3 align-items-center">
        <select class="form-select form-select-sm w-auto" id="metricSelect"></select>
        <input class="border-0 bg-transparent report-name flex-grow-1" id="reportName" size="30" type="text" placeholder="Report name...">
        {{ if .Interactive }}<button class="btn btn-sm btn-primary" id="exportButton" type="button">Export</button>{{ end }}
      </div>
      <div class="card-body">
        <div class="chart-canvas"><canvas id="chartCanvas"></canvas></div>
        <div class="legend-container" id="legendContainer"></div>
        <div class="small text-secondary mt-2" id="teleportHint"></div>
      </div>
    </section>

    <section class="card shadow-sm mb-4 invisible-until-loaded" id="summarySection">
      <div class="card-body">
        <table class="table table-bordered table-sm" id="summaryTable"></table>
      </div>
    </section>

    <section class="card shadow-sm invisible-until-loaded" id="commentSection">
      <div class="card-body">
        <label class="form-label" for="commentArea">Comment</label>
        <textarea class="form-control" id="commentArea" rows="3"></textarea>
      </div>
    </section>
  </main>

  <script src="https://code.jquery.com/jquery-3.7.1.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.2/dist/chart.umd.min.js"></script>
  <script>
    var interactive = {{ .Interactive }};
    var payload = {{ .PayloadJSON }};
    var metricOptions = {{ .MetricsJSON }};
  </script>
  <script>
    (function($) {
      var chartInstance = null;
      var currentMetric = null;
      var placement = 'trailing';
      var toneClasses = { favorable: 'table-success', unfavorable: 'table-danger', neutral: 'table-warning' };

      function names() {
        if (!payload.names) {
          payload.names = { legend: {}, reportName: '', tableTitle: '', columns: [] };
        }
        if (!payload.names.legend) {
          payload.names.legend = {};
        }
        return payload.names;
      }

      function saveNames() {
        if (!interactive) {
          return;
        }
        $.ajax({
          url: '/api/session/names',
          method: 'PUT',
          contentType: 'application/json',
          data: JSON.stringify(names())
        }).done(function() {
          refresh();
        });
      }

      function copyToClipboard(value) {
        if (value && navigator.clipboard) {
          navigator.clipboard.writeText(value);
          $('#teleportHint').text('Copied: ' + value);
        }
      }

      function renderLegend(setup) {
        var $container = $('#legendContainer').empty();
        setup.datasets.forEach(function(series, index) {
          var $item = $('<div class="legend-item"></div>');
          var $box = $('<span class="legend-color"></span>').css({
            background: series.backgroundColor,
            borderColor: series.borderColor,
            borderWidth: series.borderWidth + 'px'
          });
          $box.on('click', function() {
            var visible = chartInstance.isDatasetVisible(index);
            chartInstance.setDatasetVisibility(index, !visible);
            $item.toggleClass('hidden-series', visible);
            chartInstance.update();
          });
          var $input = $('<input type="text" size="23" class="m-0 p-0 border-0 bg-transparent">')
            .attr('placeholder', series.key)
            .val(names().legend[series.key] || '');
          $input.on('change', function() {
            names().legend[series.key] = $input.val();
            if (interactive) {
              saveNames();
              return;
            }
            chartInstance.data.datasets[index].label = $input.val().trim() || series.key;
            chartInstance.update();
          });
          $item.append($box, $input);
          $container.append($item);
        });
      }

      function chartConfig(setup) {
        var y = { min: 0 };
        if (setup.referenceLine !== undefined && setup.referenceLine !== null) {
          y.grid = {
            color: function(context) {
              return context.tick.value === setup.referenceLine ? 'rgb(230,0,0)' : '#00000033';
            }
          };
          y.ticks = { stepSize: setup.stepSize };
        }
        return {
          type: 'line',
          data: {
            labels: setup.labels,
            datasets: setup.datasets.map(function(series) {
              return {
                label: series.label,
                data: series.data,
                borderColor: series.borderColor,
                backgroundColor: series.backgroundColor,
                pointStyle: series.pointStyle,
                pointRadius: series.pointRadius,
                pointHoverRadius: series.pointHoverRadius,
                borderWidth: series.borderWidth
              };
            })
          },
          options: {
            animation: false,
            maintainAspectRatio: false,
            onClick: function(event, elements) {
              if (!elements.length) {
                return;
              }
              var point = setup.datasets[elements[0].datasetIndex].points[elements[0].index];
              copyToClipboard(point && point.teleport);
            },
            plugins: {
              legend: { display: false },
              tooltip: {
                usePointStyle: true,
                position: 'nearest',
                callbacks: {
                  title: function(items) {
                    var point = setup.datasets[items[0].datasetIndex].points[items[0].dataIndex];
                    return 'Waypoint: ' + (point ? point.waypoint : items[0].label);
                  },
                  beforeLabel: function(context) {
                    return '  ' + setup.metricLabel + ': ' + context.formattedValue;
                  },
                  label: function(context) {
                    var point = setup.datasets[context.datasetIndex].points[context.dataIndex];
                    return '  Coordinates: ' + (point ? point.coordinates : '-');
                  },
                  afterLabel: function(context) {
                    var point = setup.datasets[context.datasetIndex].points[context.dataIndex];
                    return '  Rotation: ' + (point ? point.rotation : '-');
                  }
                }
              }
            },
            scales: { y: y }
          }
        };
      }

      function renderChart(metric) {
        currentMetric = metric;
        var setup = payload.charts[metric];
        if (!setup) {
          return;
        }
        if (chartInstance) {
          chartInstance.destroy();
        }
        chartInstance = new Chart(document.getElementById('chartCanvas'), chartConfig(setup));
        renderLegend(setup);
      }

      function renderTable() {
        var layout = payload.layouts[placement];
        var $table = $('#summaryTable').empty();
        var $head = $('<tr class="table-primary"></tr>');
        var datasetIndex = 0;
        layout.header.forEach(function(text, col) {
          var $th = $('<th scope="col"></th>').text(text);
          if (text === 'delta' && col > 0) {
            $th.addClass('delta-head').text('delta ⇄').on('click', function() {
              placement = placement === 'trailing' ? 'beforeLast' : 'trailing';
              renderTable();
            });
          } else if (col === 0) {
            $th.attr('contenteditable', 'true').on('blur', function() {
              names().tableTitle = $th.text().trim();
              saveNames();
            });
          } else {
            var index = datasetIndex++;
            var series = payload.charts[currentMetric].datasets[index];
            if (series) {
              $th.css('color', series.borderColor);
            }
            $th.attr('contenteditable', 'true').on('blur', function() {
              var columns = names().columns || [];
              while (columns.length < payload.datasets.length) {
                columns.push('');
              }
              columns[index] = $th.text().trim();
              names().columns = columns;
              saveNames();
            });
          }
          $head.append($th);
        });
        $table.append($('<thead></thead>').append($head));

        var $body = $('<tbody></tbody>');
        layout.rows.forEach(function(row) {
          var $tr = $('<tr></tr>');
          row.forEach(function(cell, col) {
            if (col === 0) {
              $tr.append($('<th scope="row"></th>').text(cell.text));
              return;
            }
            var text = cell.text || '';
            if (cell.delta && cell.detail) {
              text += ' (' + cell.detail + ')';
            }
            var $td = $('<td></td>').text(text);
            if (cell.delta && toneClasses[cell.tone]) {
              $td.addClass(toneClasses[cell.tone]);
            }
            $tr.append($td);
          });
          $body.append($tr);
        });
        $table.append($body);
      }

      function renderAll() {
        if (!payload) {
          return;
        }
        $('.invisible-until-loaded').show();
        $('#generatedAt').text(new Date(payload.generatedAt).toLocaleString());
        $('#reportName').val(names().reportName || '');
        if (payload.comment) {
          $('#commentArea').val(payload.comment);
        }
        var $select = $('#metricSelect').empty();
        metricOptions.forEach(function(option) {
          $select.append($('<option></option>').val(option.key).text(option.label));
        });
        var metric = currentMetric || payload.defaultMetric;
        $select.val(metric);
        placement = placement || payload.placement;
        renderChart(metric);
        renderTable();
      }

      function refresh() {
        $.getJSON('/api/report', { metric: currentMetric || '' }).done(function(data) {
          payload = data;
          renderAll();
        });
      }

      $('#metricSelect').on('change', function() {
        renderChart($(this).val());
        renderTable();
      });

      $('#reportName').on('change', function() {
        names().reportName = $(this).val().trim();
        saveNames();
      });

      $('#fileInput').on('change', function() {
        var form = new FormData();
        $.each(this.files, function(_, file) {
          form.append('files', file, file.name);
        });
        $('#uploadError').text('');
        $.ajax({ url: '/api/session', method: 'POST', data: form, processData: false, contentType: false })
          .done(function() {
            currentMetric = null;
            placement = 'trailing';
            refresh();
          })
          .fail(function(xhr) {
            var body = xhr.responseJSON || {};
            $('#uploadError').text(body.error || 'upload failed');
          });
      });

      $('#exportButton').on('click', function() {
        fetch('/api/export', {
          method: 'POST',
          headers: { 'Content-Type': 'application/json' },
          body: JSON.stringify({ comment: $('#commentArea').val(), metric: currentMetric })
        }).then(function(response) {
          if (!response.ok) {
            throw new Error('export failed');
          }
          var disposition = response.headers.get('Content-Disposition') || '';
          var match = /filename="?([^"]+)"?/.exec(disposition);
          return response.blob().then(function(blob) {
            var link = document.createElement('a');
            link.href = URL.createObjectURL(blob);
            link.download = match ? match[1] : 'perfview-report.zip';
            link.click();
            URL.revokeObjectURL(link.href);
          });
        }).catch(function(err) {
          $('#uploadError').text(err.message);
        });
      });

      if (payload) {
        placement = payload.placement;
        renderAll();
      } else if (interactive) {
        $.getJSON('/api/report').done(function(data) {
          payload = data;
          placement = data.placement;
          renderAll();
        });
      }
    })(jQuery);
  </script>
</body>
</html>
`
